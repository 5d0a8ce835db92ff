// Package redis connects to the optional Redis server that shares rate
// limit state between replicas.
//
//	cfg := config.MustLoad[redis.Config]()
//	if cfg.Enabled() {
//		client, err := redis.Connect(ctx, cfg)
//		...
//		checks = append(checks, redis.Healthcheck(client))
//	}
package redis
