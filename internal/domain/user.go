package domain

import "time"

type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Permission — строковые capability вида "planning.approve.l1".
type Permission string

const (
	PermissionPlanningEdit      Permission = "planning.edit"
	PermissionPlanningApproveL1 Permission = "planning.approve.l1"
	PermissionPlanningApproveL2 Permission = "planning.approve.l2"
	PermissionMasterDataImport  Permission = "masterdata.import"
)
