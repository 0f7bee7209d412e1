package entity

// DbFryRecord is a captured Telegram session bundle tied to a phone number
// and, optionally, to the inviting agent via invite_code. The dc_* and
// user_auth_* fields are opaque to this system.
type DbFryRecord struct {
	ID           int64  `gorm:"primarykey" json:"id"`
	Phone        string `gorm:"column:phone;type:varchar(20);not null" json:"phone"`
	URL          string `gorm:"column:url;type:text;not null" json:"url"`
	InviteCode   string `gorm:"column:invite_code;type:varchar(20)" json:"invite_code"`
	DcAuthKey    string `gorm:"column:dc_auth_key;type:text;not null" json:"dc_auth_key"`
	DcServerSalt string `gorm:"column:dc_server_salt;type:varchar(100);not null" json:"dc_server_salt"`
	UserAuthDcID int    `gorm:"column:user_auth_dc_id;not null" json:"user_auth_dc_id"`
	UserAuthDate int64  `gorm:"column:user_auth_date;not null" json:"user_auth_date"`
	UserAuthID   int64  `gorm:"column:user_auth_id;not null" json:"user_auth_id"`
	StateID      string `gorm:"column:state_id;type:varchar(100);not null" json:"state_id"`
	Pwd          string `gorm:"column:pwd;type:varchar(100)" json:"pwd"`
	Remark       string `gorm:"column:remark;type:text" json:"remark"`
	CreatedAt    int64  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    int64  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the legacy table name.
func (DbFryRecord) TableName() string {
	return "d_fry"
}

// FryRecordQuery supports listing records with pagination.
//
// Date is a calendar day in YYYY-MM-DD form matched against created_at in
// the server's local time zone; a malformed value is ignored. Agent is a
// username resolved to that user's invite_code; an unresolvable agent is
// ignored as well.
type FryRecordQuery struct {
	BaseParams
	Date  string `json:"date" form:"date" query:"date"`
	Phone string `json:"phone" form:"phone" query:"phone"`
	Agent string `json:"agent" form:"agent" query:"agent"`
}

// FryRecordPatch carries the mutable fields. Nil means "leave as is".
type FryRecordPatch struct {
	Remark *string
	Pwd    *string
}

// IsEmpty reports whether the patch would change nothing.
func (p FryRecordPatch) IsEmpty() bool {
	return p.Remark == nil && p.Pwd == nil
}

type RemarkUpdateRequest struct {
	Remark string `json:"remark"`
}
