package router

import (
	"github.com/gin-gonic/gin"

	"shopcore_api/internal/controller"
)

// Controllers 控制器集合
type Controllers struct {
	Partner *controller.PartnerController
	Product *controller.ProductController
	Sync    *controller.SyncController
}

// SetupRouter 注册所有路由
func SetupRouter(c *Controllers) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		// partner 合作方管理
		partners := api.Group("/partners")
		{
			partners.GET("", c.Partner.GetList)
			partners.GET("/:id", c.Partner.GetDetail)
			partners.POST("", c.Partner.Create)
			partners.PUT("/:id", c.Partner.Update)
			partners.DELETE("/:id", c.Partner.Delete)

			// 同步/对账触发
			partners.POST("/:id/sync", c.Sync.SyncPartner)
			partners.POST("/:id/reconcile", c.Sync.Reconcile)
		}

		// product 商品后台
		products := api.Group("/products")
		{
			products.GET("", c.Product.GetList)
			products.GET("/:id", c.Product.GetDetail)
			products.PUT("/:id", c.Product.Update)
		}

		// sync 后台任务
		sync := api.Group("/sync")
		{
			sync.GET("/status", c.Sync.Status)
			sync.POST("/orders", c.Sync.ReconcileOrders)
		}
	}

	return r
}
