package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev0b1/selah-sub001/internal/models"
	"github.com/dev0b1/selah-sub001/internal/tracks"
)

// MoodsHandler lists the moods the pipeline accepts.
type MoodsHandler struct {
	registry *tracks.Registry
}

// NewMoodsHandler creates a moods handler over the track registry.
func NewMoodsHandler(registry *tracks.Registry) *MoodsHandler {
	return &MoodsHandler{registry: registry}
}

// HandleMoods returns every mood with its background-track pool.
func (h *MoodsHandler) HandleMoods(c *gin.Context) {
	moods := make([]gin.H, 0, len(models.AllMoods))
	for _, mood := range models.AllMoods {
		moods = append(moods, gin.H{
			"mood":   mood,
			"tracks": h.registry.Pool(mood),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"moods": moods,
		"count": len(moods),
	})
}
