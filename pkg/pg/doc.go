// Package pg bootstraps the PostgreSQL layer: a pgx connection pool with
// retry, an sqlx handle over the same pool for stores, goose migrations read
// from an fs.FS, a readiness check and predicates that classify driver
// errors.
//
// Typical startup:
//
//	cfg := config.MustLoad[pg.Config]()
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	db := pg.OpenDB(pool)
//	if cfg.MigrateOnStart {
//		if err := pg.Migrate(ctx, db.DB, migrations.FS, cfg, log); err != nil {
//			return err
//		}
//	}
//
// Stores map driver errors onto client errors with IsNotFoundError,
// IsDuplicateKeyError and IsForeignKeyViolationError. Both pgx and
// database/sql sentinels are recognized since sqlx goes through the latter.
package pg
