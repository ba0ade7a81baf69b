package models

import "time"

// Asset is a tracked organizational asset. CreatedBy is stamped from the
// resolved session at insert time and never changes afterwards.
type Asset struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Cost           float64   `json:"cost"`
	DatePurchased  string    `json:"datePurchased"`
	CategoryID     int64     `json:"categoryId"`
	DepartmentID   int64     `json:"departmentId"`
	CategoryName   string    `json:"categoryName"`
	DepartmentName string    `json:"departmentName"`
	CreatedBy      string    `json:"createdBy"`
	CreatedByName  string    `json:"createdByName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewAsset is the client-supplied portion of an asset. It deliberately has no
// owner field: ownership always comes from the acting session.
type NewAsset struct {
	Name          string  `json:"name"`
	Cost          float64 `json:"cost"`
	DatePurchased string  `json:"datePurchased"`
	CategoryID    int64   `json:"categoryId"`
	DepartmentID  int64   `json:"departmentId"`
}
