package handlers

import (
	"net/http"

	"pelangganpro-server/rfm"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// GetInsightsOverview returns overall customer-base statistics
func GetInsightsOverview(c *gin.Context) {
	orgID := getOrgID(c)

	records, err := loadRFMRecords(orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer data", "details": err.Error()})
		return
	}

	stats := rfm.Overview(records)
	c.JSON(http.StatusOK, gin.H{
		"total_customers": stats.TotalCustomers,
		"total_revenue":   stats.TotalRevenue,
		"avg_ltv":         stats.AvgLTV,
		"churn_rate":      stats.ChurnRate,
	})
}

// GetInsightsHeatmap returns the 5x5 recency x frequency density matrix
func GetInsightsHeatmap(c *gin.Context) {
	orgID := getOrgID(c)

	records, err := loadRFMRecords(orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer data", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"matrix": rfm.Heatmap(records)})
}

// GetDashboard returns the counters for the main dashboard. The independent
// reads run concurrently and are joined before responding; if any one of them
// fails the whole response fails.
func GetDashboard(c *gin.Context) {
	orgID := getOrgID(c)

	var (
		totalContacts  int
		openDeals      int
		pipelineValue  float64
		dueTasks       int
		openTickets    int
		totalCompanies int
	)

	g := new(errgroup.Group)

	g.Go(func() error {
		return DB.QueryRow(`SELECT COUNT(*) FROM contacts WHERE organization_id = $1`, orgID).
			Scan(&totalContacts)
	})
	g.Go(func() error {
		return DB.QueryRow(`SELECT COUNT(*), COALESCE(SUM(value), 0) FROM deals WHERE organization_id = $1 AND status = 'open'`, orgID).
			Scan(&openDeals, &pipelineValue)
	})
	g.Go(func() error {
		return DB.QueryRow(`SELECT COUNT(*) FROM tasks WHERE organization_id = $1 AND status = 'pending' AND due_date IS NOT NULL AND due_date <= NOW()`, orgID).
			Scan(&dueTasks)
	})
	g.Go(func() error {
		return DB.QueryRow(`SELECT COUNT(*) FROM tickets WHERE organization_id = $1 AND status IN ('open', 'in_progress')`, orgID).
			Scan(&openTickets)
	})
	g.Go(func() error {
		return DB.QueryRow(`SELECT COUNT(*) FROM companies WHERE organization_id = $1`, orgID).
			Scan(&totalCompanies)
	})

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard stats", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_contacts":  totalContacts,
		"total_companies": totalCompanies,
		"open_deals":      openDeals,
		"pipeline_value":  pipelineValue,
		"due_tasks":       dueTasks,
		"open_tickets":    openTickets,
	})
}
