package handler

import "github.com/labstack/echo/v4"

func Register(e *echo.Echo, search *SearchHandler, form *FormHandler) {
	e.JSONSerializer = JSONSerializer{}

	api := e.Group("/api/v1")
	api.GET("/search", search.Page)
	api.POST("/journeys/search", search.Search)
	api.POST("/form/events", form.Event)
	e.GET("/health", HealthHandler)
}
