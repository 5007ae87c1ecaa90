package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"shopcore_api/internal/model"
	"shopcore_api/internal/repository"
)

// ==================== 订单对账服务 ====================

// OrderReconcileService 订单-支付对账
// 轮询 CRM 订单状态、支付网关发票状态与承运商运单，按简单条件刷新本地订单；
// 无人值守运行，单笔失败只记日志
type OrderReconcileService struct {
	orderRepo     repository.OrderRepository
	partnerRepo   repository.PartnerRepository
	partnerClient *PartnerClient
	payment       *PaymentClient
	carrier       *CarrierClient
}

// NewOrderReconcileService 创建订单对账服务
func NewOrderReconcileService(
	orderRepo repository.OrderRepository,
	partnerRepo repository.PartnerRepository,
	partnerClient *PartnerClient,
	payment *PaymentClient,
	carrier *CarrierClient,
) *OrderReconcileService {
	return &OrderReconcileService{
		orderRepo:     orderRepo,
		partnerRepo:   partnerRepo,
		partnerClient: partnerClient,
		payment:       payment,
		carrier:       carrier,
	}
}

// ReconcileOrders 对全部未结清订单执行一轮对账
func (s *OrderReconcileService) ReconcileOrders(ctx context.Context) (checked, updated, failed int) {
	orders, err := s.orderRepo.ListUnsettled(ctx, 500)
	if err != nil {
		log.Printf("[OrderReconcile] 获取未结清订单失败: %v", err)
		return 0, 0, 0
	}

	for i := range orders {
		checked++
		changed, err := s.reconcileOne(ctx, &orders[i])
		if err != nil {
			log.Printf("[OrderReconcile] 订单 %s 对账失败: %v", orders[i].Number, err)
			failed++
			continue
		}
		if changed {
			updated++
		}
	}

	if checked > 0 {
		log.Printf("[OrderReconcile] 对账完成: 检查 %d, 更新 %d, 失败 %d", checked, updated, failed)
	}
	return checked, updated, failed
}

// reconcileOne 对单笔订单做一轮状态核对
func (s *OrderReconcileService) reconcileOne(ctx context.Context, order *model.Order) (bool, error) {
	fields := map[string]interface{}{}

	// 1. CRM 订单状态
	if order.CrmOrderID > 0 && order.PartnerID > 0 {
		partner, err := s.partnerRepo.GetByID(ctx, order.PartnerID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return false, err
			}
		} else {
			cred := Credentials{ApiURL: partner.ApiURL, ApiKey: partner.ApiKey}
			crm, err := s.partnerClient.FetchOrderStatus(ctx, cred, order.CrmOrderID)
			if err != nil {
				return false, err
			}
			if st := MapCrmStatus(crm.Status); st != "" && st != order.Status {
				fields["status"] = st
			}
			if crm.Ttn != "" && crm.Ttn != order.Ttn {
				fields["ttn"] = crm.Ttn
			}

			// 2. 运单已出、未签收时查承运商
			if order.Status == model.OrderStatusShipped && order.Ttn != "" && s.carrier != nil {
				info, err := s.carrier.TrackShipment(ctx, partner.DeliveryServiceID, order.Ttn)
				if err != nil {
					return false, err
				}
				if info.Delivered() {
					fields["status"] = model.OrderStatusDelivered
				}
			}
		}
	}

	// 3. 支付网关发票状态
	if order.InvoiceID != "" && order.PaymentStatus == model.PaymentStatusUnpaid && s.payment != nil {
		invoice, err := s.payment.FetchInvoiceStatus(ctx, order.InvoiceID)
		if err != nil {
			return false, err
		}
		switch invoice.Status {
		case InvoiceStatusSuccess:
			fields["payment_status"] = model.PaymentStatusPaid
		case InvoiceStatusReversed:
			fields["payment_status"] = model.PaymentStatusRefunded
		}
	}

	if len(fields) == 0 {
		return false, nil
	}
	return true, s.orderRepo.UpdateFields(ctx, order.ID, fields)
}

// MapCrmStatus CRM 状态名映射到本地订单状态，未识别返回空串（保持不变）
func MapCrmStatus(status string) string {
	switch strings.ToLower(status) {
	case "new":
		return model.OrderStatusPending
	case "confirmed", "processing", "packed":
		return model.OrderStatusProcessing
	case "shipped", "on_the_way":
		return model.OrderStatusShipped
	case "done", "completed", "delivered":
		return model.OrderStatusDelivered
	case "canceled", "cancelled", "returned":
		return model.OrderStatusCancelled
	default:
		return ""
	}
}
