package demoserver

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-gin-demo-server/internal/shared/errors"
	"github.com/Apurer/go-gin-demo-server/internal/web"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router with the embedded templates loaded.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	router := gin.Default()
	router.SetHTMLTemplate(template.Must(web.Templates()))
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine. Middleware must
// be registered on router before calling it; gin binds handler chains when a
// route is added.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.Use(apierrors.Middleware(problemResponder))
	for _, route := range getRoutes(handleFunctions) {
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail("no route for "+c.Request.Method+" "+c.Request.URL.Path))
	})
	return router
}

type ApiHandleFunctions struct {
	// Routes for the ViewAPI part of the API
	ViewAPI ViewAPI
	// Routes for the UserAPI part of the API
	UserAPI UserAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"Index",
			http.MethodGet,
			"/index",
			handleFunctions.ViewAPI.Index,
		},
		{
			"Index1",
			http.MethodGet,
			"/index1",
			handleFunctions.ViewAPI.Index1,
		},
		{
			"SaveOrUpdateUser",
			http.MethodPost,
			"/users",
			handleFunctions.UserAPI.SaveOrUpdateUser,
		},
		{
			"SaveOrUpdateUserPut",
			http.MethodPut,
			"/users",
			handleFunctions.UserAPI.SaveOrUpdateUser,
		},
		{
			"ListUsers",
			http.MethodGet,
			"/users",
			handleFunctions.UserAPI.ListUsers,
		},
		{
			"GetUser",
			http.MethodGet,
			"/users/:id",
			handleFunctions.UserAPI.GetUser,
		},
		{
			"DeleteUser",
			http.MethodDelete,
			"/users/:id",
			handleFunctions.UserAPI.DeleteUser,
		},
	}
}
