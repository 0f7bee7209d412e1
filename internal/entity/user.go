package entity

const (
	UserRoleAdmin = "admin"
	UserRoleAgent = "agent"
)

// DbUser represents a persisted console account.
type DbUser struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Username   string `gorm:"column:username;type:varchar(50);uniqueIndex;not null" json:"username"`
	Password   string `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Role       string `gorm:"column:role;type:varchar(20);index;not null;default:agent" json:"role"`
	InviteCode string `gorm:"column:invite_code;type:varchar(20)" json:"invite_code"`
	CreatedAt  int64  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  int64  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "d_user"
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	Username string `json:"username" form:"username" query:"username"`
	Role     string `json:"role" form:"role" query:"role"`
}

// UserPatch carries the fields an update may touch. Nil means "leave as is".
// Password must hold the bcrypt hash, never the plaintext.
type UserPatch struct {
	Password *string
	Role     *string
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Password == nil && p.Role == nil
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success bool    `json:"success"`
	Token   string  `json:"token,omitempty"`
	User    *DbUser `json:"user,omitempty"`
	Message string  `json:"message,omitempty"`
}

type AgentCreateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}
