package constants

const (
	CookieKeyAuthToken   = "auth_token"
	CookieKeySecretToken = "secret_token"

	CtxKeyUserID = "user_id"

	ViperSecretKey       = "auth.jwt_secret"
	ViperListenAddr      = "server.listen_addr"
	ViperDashboardOrigin = "server.dashboard_origin"
	ViperDatabaseDSN     = "database.dsn"
	ViperMasterDataURL   = "masterdata.base_url"
	ViperShutdownTimeout = "server.shutdown_timeout"
)
