package models

// Permission is the access level of a share.
type Permission string

const (
	PermissionViewer Permission = "viewer"
	PermissionEditor Permission = "editor"
)

func (p Permission) Valid() bool { return p == PermissionViewer || p == PermissionEditor }

// SharedUser is an access grant on a material. The creator is never listed.
type SharedUser struct {
	UserID     int64      `json:"user_id"`
	Email      string     `json:"email"`
	Permission Permission `json:"permission"`
}

// ShareUpdate is one entry of a batch permission change.
type ShareUpdate struct {
	UserID     int64      `json:"user_id"`
	Permission Permission `json:"permission"`
}

// PendingShare is an incoming share waiting for acceptance.
type PendingShare struct {
	ShareID      int64  `json:"share_id"`
	MaterialName string `json:"material_name"`
	SharerEmail  string `json:"sharer_email"`
}

// User is the authenticated account.
type User struct {
	Email string `json:"email"`
}
