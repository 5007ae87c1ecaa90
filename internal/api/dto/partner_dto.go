package dto

// CreatePartnerReq 新建合作方请求
type CreatePartnerReq struct {
	Name              string `json:"name" binding:"required"`
	ApiURL            string `json:"api_url" binding:"required,url"`
	ApiKey            string `json:"api_key" binding:"required"`
	CrmManagerID      int64  `json:"crm_manager_id"`
	CrmSourceID       int64  `json:"crm_source_id"`
	PrepayMethodID    int64  `json:"prepay_method_id"`
	PostpayMethodID   int64  `json:"postpay_method_id"`
	DeliveryServiceID int64  `json:"delivery_service_id"`
}

// UpdatePartnerReq 更新合作方请求，零值字段不更新
type UpdatePartnerReq struct {
	Name              string `json:"name"`
	ApiURL            string `json:"api_url" binding:"omitempty,url"`
	ApiKey            string `json:"api_key"`
	CrmManagerID      int64  `json:"crm_manager_id"`
	CrmSourceID       int64  `json:"crm_source_id"`
	PrepayMethodID    int64  `json:"prepay_method_id"`
	PostpayMethodID   int64  `json:"postpay_method_id"`
	DeliveryServiceID int64  `json:"delivery_service_id"`
}
