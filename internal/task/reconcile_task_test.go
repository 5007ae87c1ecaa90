package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"shopcore_api/internal/config"
	"shopcore_api/internal/model"
	"shopcore_api/internal/repository"
	"shopcore_api/internal/service"
)

// ==================== 测试替身 ====================

// recordScheduler 只记录延迟，不真正执行
type recordScheduler struct {
	delays []time.Duration
}

func (s *recordScheduler) Schedule(delay time.Duration, fn func()) string {
	s.delays = append(s.delays, delay)
	return "job"
}
func (s *recordScheduler) Pending() int { return len(s.delays) }
func (s *recordScheduler) Stop()        {}

type stubPartnerRepo struct {
	partners map[int64]*model.Partner
}

func (r *stubPartnerRepo) Create(ctx context.Context, p *model.Partner) error { return nil }
func (r *stubPartnerRepo) GetByID(ctx context.Context, id int64) (*model.Partner, error) {
	p, ok := r.partners[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}
func (r *stubPartnerRepo) List(ctx context.Context) ([]model.Partner, error) {
	var out []model.Partner
	for _, p := range r.partners {
		out = append(out, *p)
	}
	return out, nil
}
func (r *stubPartnerRepo) Update(ctx context.Context, p *model.Partner) error { return nil }
func (r *stubPartnerRepo) Delete(ctx context.Context, id int64) error         { return nil }

type stubProductRepo struct {
	products []model.Product
}

func (r *stubProductRepo) Create(ctx context.Context, p *model.Product) error { return nil }
func (r *stubProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubProductRepo) GetByExternal(ctx context.Context, externalID, partnerID int64) (*model.Product, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubProductRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return nil
}
func (r *stubProductRepo) Delete(ctx context.Context, id int64) error { return nil }
func (r *stubProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	return nil, 0, nil
}
func (r *stubProductRepo) ListByPartner(ctx context.Context, partnerID int64) ([]model.Product, error) {
	return r.products, nil
}
func (r *stubProductRepo) UpdateSizeFields(ctx context.Context, sizeID int64, fields map[string]interface{}) error {
	return nil
}

// ==================== 用例 ====================

func newTestTask(partners map[int64]*model.Partner, products []model.Product, sched JobScheduler) *ReconcileTask {
	cfg := &config.SyncConfig{ChunkSize: 30, ChunkInterval: time.Minute}
	return NewReconcileTask(
		&stubPartnerRepo{partners: partners},
		&stubProductRepo{products: products},
		nil,
		sched,
		cfg,
	)
}

func TestEnqueue_ChunkDelays(t *testing.T) {
	products := make([]model.Product, 75)
	sched := &recordScheduler{}
	task := newTestTask(map[int64]*model.Partner{
		1: {BaseModel: model.BaseModel{ID: 1}, Name: "测试合作方"},
	}, products, sched)

	result, err := task.Enqueue(context.Background(), 1)
	if err != nil {
		t.Fatalf("入队失败: %v", err)
	}

	if result.TotalProducts != 75 {
		t.Errorf("TotalProducts = %d, want 75", result.TotalProducts)
	}
	if result.TotalChunks != 3 {
		t.Errorf("TotalChunks = %d, want 3", result.TotalChunks)
	}

	// 75 个商品按 30 切块 → 3 块，延迟依次为 0、60s、120s
	want := []time.Duration{0, time.Minute, 2 * time.Minute}
	if len(sched.delays) != len(want) {
		t.Fatalf("调度次数 = %d, want %d", len(sched.delays), len(want))
	}
	for i, d := range want {
		if sched.delays[i] != d {
			t.Errorf("分块 %d 延迟 = %v, want %v", i, sched.delays[i], d)
		}
	}
}

func TestEnqueue_PartnerNotFound(t *testing.T) {
	task := newTestTask(map[int64]*model.Partner{}, nil, &recordScheduler{})

	_, err := task.Enqueue(context.Background(), 99)
	if !errors.Is(err, service.ErrPartnerNotFound) {
		t.Errorf("err = %v, want ErrPartnerNotFound", err)
	}
}

func TestEnqueue_Empty(t *testing.T) {
	sched := &recordScheduler{}
	task := newTestTask(map[int64]*model.Partner{
		1: {BaseModel: model.BaseModel{ID: 1}, Name: "空目录"},
	}, nil, sched)

	result, err := task.Enqueue(context.Background(), 1)
	if err != nil {
		t.Fatalf("入队失败: %v", err)
	}
	if result.TotalChunks != 0 {
		t.Errorf("空目录 TotalChunks = %d, want 0", result.TotalChunks)
	}
	if len(sched.delays) != 0 {
		t.Errorf("空目录不应调度任务, 调度了 %d 次", len(sched.delays))
	}
}

func TestChunkProducts(t *testing.T) {
	cases := []struct {
		total int
		size  int
		want  []int
	}{
		{75, 30, []int{30, 30, 15}},
		{30, 30, []int{30}},
		{0, 30, nil},
		{5, 30, []int{5}},
	}

	for _, c := range cases {
		chunks := chunkProducts(make([]model.Product, c.total), c.size)
		if len(chunks) != len(c.want) {
			t.Errorf("total=%d: 块数 = %d, want %d", c.total, len(chunks), len(c.want))
			continue
		}
		for i, n := range c.want {
			if len(chunks[i]) != n {
				t.Errorf("total=%d: 块 %d 大小 = %d, want %d", c.total, i, len(chunks[i]), n)
			}
		}
	}
}
