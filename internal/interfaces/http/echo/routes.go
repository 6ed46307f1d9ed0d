package echo

import e "github.com/labstack/echo/v4"

// Routes groups the handlers mounted under /api/v1. A nil Import handler
// leaves the import endpoints unregistered.
type Routes struct {
	Import   *ImportHandler
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Sessions SessionParser
}

func RegisterRoutes(server *e.Echo, routes Routes) {
	api := server.Group("/api/v1")

	if routes.Import != nil {
		api.POST("/imports/users", routes.Import.ImportUsers)
		api.GET("/imports/status", routes.Import.ImportStatus)
	}

	if routes.Auth != nil {
		api.POST("/auth/login", routes.Auth.Login)
		api.POST("/auth/google", routes.Auth.LoginWithGoogle)
		api.POST("/auth/facebook", routes.Auth.LoginWithFacebook)
		if routes.Sessions != nil {
			api.GET("/auth/me", routes.Auth.Me, RequireSession(routes.Sessions))
		}
	}

	if routes.Profile != nil {
		api.GET("/users/:id", routes.Profile.GetProfileByID)
	}
}
