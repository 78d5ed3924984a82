// Package redis opens the optional go-redis client used for the shared
// logout revocation list.
//
// [Open] parses a redis:// or rediss:// URL from [Config], applies pool
// settings and pings with linear backoff until the server answers or the
// attempts run out. [Healthcheck] and [Shutdown] plug the client into the
// readiness probe and the server shutdown hooks.
//
//	client, err := redis.Open(ctx, cfg.Redis)
//	if errors.Is(err, redis.ErrDisabled) {
//		// fall back to in-process revocation
//	}
package redis
