package server

import (
	"errors"
	"net/http"
	"strconv"

	"campusdining-backend/services/dining"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server exposes the dining engine to the backend collaborator. this
// surface carries no auth, the collaborator in front of it does.
type Server struct {
	svc dining.Service
}

func NewRouter(svc dining.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	s := Server{svc: svc}
	router.GET("/api/dining/halls", s.getHalls)
	router.GET("/api/dining/halls/:id/menu", s.getHallMenu)
	router.GET("/api/dining/dishes/search", s.searchDishes)
	router.GET("/menus/:menuId/items", s.getMenuItems)
	return router
}

// getHalls returns every facility annotated with its live open/closed
// status. isOpen is JSON null when the status could not be determined,
// which the mobile client renders as "hours unknown".
func (s Server) getHalls(c *gin.Context) {
	statuses := s.svc.HallStatuses(c.Request.Context())
	c.JSON(http.StatusOK, statuses)
}

func (s Server) getHallMenu(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hall id must be an integer"})
		return
	}

	menu, err := s.svc.HallMenu(c.Request.Context(), id)
	if errors.Is(err, dining.ErrUnknownFacility) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown dining hall"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (s Server) getMenuItems(c *gin.Context) {
	menuId, err := strconv.ParseInt(c.Param("menuId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menu id must be an integer"})
		return
	}
	unitId, err := strconv.Atoi(c.Query("unitId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unitId query parameter must be an integer"})
		return
	}

	items, err := s.svc.MenuItems(c.Request.Context(), menuId, unitId)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s Server) searchDishes(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})
		return
	}
	c.JSON(http.StatusOK, s.svc.SearchDishes(c.Request.Context(), query))
}
