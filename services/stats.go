package services

import (
	"fmt"
	"math"

	"assetmanager/backend/database"
)

// AdminStats is the admin dashboard summary: entity counts across the whole
// system.
type AdminStats struct {
	Users       int `json:"users"`
	Assets      int `json:"assets"`
	Categories  int `json:"categories"`
	Departments int `json:"departments"`
}

// UserStats is the user dashboard summary: the acting user's own asset count
// and total value.
type UserStats struct {
	Assets     int     `json:"assets"`
	TotalValue float64 `json:"totalValue"`
}

func GetAdminStats() (*AdminStats, error) {
	stats := &AdminStats{}

	counts := []struct {
		table string
		dest  *int
	}{
		{"profiles", &stats.Users},
		{"assets", &stats.Assets},
		{"categories", &stats.Categories},
		{"departments", &stats.Departments},
	}

	for _, c := range counts {
		err := database.DB.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dest)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	return stats, nil
}

func GetUserStats(ownerID string) (*UserStats, error) {
	stats := &UserStats{}

	err := database.DB.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(cost), 0) FROM assets WHERE created_by = ?",
		ownerID).Scan(&stats.Assets, &stats.TotalValue)
	if err != nil {
		return nil, fmt.Errorf("failed to compute user stats: %w", err)
	}

	stats.TotalValue = math.Round(stats.TotalValue*100) / 100
	return stats, nil
}
