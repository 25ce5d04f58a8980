package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhijithns29/propchain/internal/domain"
)

// predictionRequest mirrors the public API contract. Latitude and longitude
// are pointers so that 0 is a valid coordinate and absence still fails
// validation.
type predictionRequest struct {
	AreaSqft    float64  `json:"area_sqft" binding:"required,gt=0"`
	Latitude    *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
	District    string   `json:"district" binding:"required"`
	State       string   `json:"state" binding:"required"`
	LandType    string   `json:"land_type" binding:"required"`
	Pincode     string   `json:"pincode"`
	RoadWidth   *float64 `json:"road_width" binding:"omitempty,gt=0"`
	Electricity *bool    `json:"electricity"`
	WaterSupply *bool    `json:"water_supply"`
}

type predictionResponse struct {
	PredictedPrice     float64              `json:"predicted_price"`
	PricePerSqft       float64              `json:"price_per_sqft"`
	ConfidenceScore    float64              `json:"confidence_score"`
	ConfidenceInterval domain.PriceInterval `json:"confidence_interval"`
	KeyFactors         map[string]string    `json:"key_factors"`
	MarketInsights     any                  `json:"market_insights"`
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	attrs := domain.PropertyAttributes{
		AreaSqft:    req.AreaSqft,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		District:    req.District,
		State:       req.State,
		LandType:    domain.LandType(req.LandType),
		Pincode:     req.Pincode,
		RoadWidth:   req.RoadWidth,
		Electricity: req.Electricity,
		WaterSupply: req.WaterSupply,
	}

	start := time.Now()
	fv := s.features.CreateFeatures(c.Request.Context(), attrs)
	est := s.estimator.Predict(fv)
	s.metrics.PredictionDuration.Observe(time.Since(start).Seconds())
	s.metrics.PredictionsTotal.WithLabelValues(est.Branch).Inc()

	s.logger.Info("prediction served",
		"district", attrs.District,
		"state", attrs.State,
		"branch", est.Branch,
		"price", est.Price,
		"confidence", est.Confidence,
	)

	c.JSON(http.StatusOK, predictionResponse{
		PredictedPrice:     est.Price,
		PricePerSqft:       est.PricePerSqft,
		ConfidenceScore:    est.Confidence,
		ConfidenceInterval: est.Interval,
		KeyFactors:         est.Factors,
		MarketInsights:     s.marketInsights(c, attrs),
	})
}

// marketInsights fetches display context for the response. Failures never
// fail the prediction: a fixed default context is substituted.
func (s *Server) marketInsights(c *gin.Context, attrs domain.PropertyAttributes) any {
	insights, err := s.insights.Insights(c.Request.Context(), attrs.District, attrs.State, string(attrs.LandType))
	if err != nil {
		s.logger.Warn("market insights unavailable", "district", attrs.District, "error", err)
		s.metrics.InsightFallbacks.Inc()
		return gin.H{"market_activity": "Active", "growth_rate": 8}
	}
	return insights
}

func (s *Server) handleScrapeUpdate(c *gin.Context) {
	district := c.Query("district")
	state := c.Query("state")
	if district == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "district and state are required"})
		return
	}

	s.metrics.ScrapeRuns.Inc()
	added, err := s.scraper.ScrapeAll(c.Request.Context(), district, state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	s.metrics.ListingsScraped.Add(float64(added))

	c.JSON(http.StatusOK, gin.H{
		"message":       "Data updated successfully",
		"records_added": added,
	})
}
