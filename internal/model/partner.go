package model

// Partner 合作方（外部货源/CRM 系统）
// ApiURL + ApiKey 共同构成该合作方所有出站调用的凭证，严禁写入日志
type Partner struct {
	BaseModel
	Name   string `gorm:"size:100;not null" json:"name"`
	ApiURL string `gorm:"size:255;not null" json:"api_url"`
	ApiKey string `gorm:"size:255;not null" json:"-"`

	// --- CRM 路由标识 ---
	CrmManagerID      int64 `gorm:"default:0" json:"crm_manager_id"`
	CrmSourceID       int64 `gorm:"default:0" json:"crm_source_id"`
	PrepayMethodID    int64 `gorm:"default:0" json:"prepay_method_id"`
	PostpayMethodID   int64 `gorm:"default:0" json:"postpay_method_id"`
	DeliveryServiceID int64 `gorm:"default:0" json:"delivery_service_id"`

	Products []Product `gorm:"foreignKey:PartnerID" json:"-"`
}

func (Partner) TableName() string {
	return "partners"
}
