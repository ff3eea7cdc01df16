package service

import (
	"Reunite/internal/model"
	"Reunite/internal/pkg/consts"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	svc        ReportService
	reportRepo *fakeReportRepo
	userRepo   *fakeUserRepo
	notifyRepo *fakeNotificationRepo
	counter    *fakeViewCounter
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	reportRepo := newFakeReportRepo()
	userRepo := newFakeUserRepo()
	notifyRepo := newFakeNotificationRepo()
	counter := newFakeViewCounter()
	notifySvc := NewNotificationService(notifyRepo, newFakeUnreadCache())
	return &reportFixture{
		svc:        NewReportService(reportRepo, userRepo, notifySvc, counter),
		reportRepo: reportRepo,
		userRepo:   userRepo,
		notifyRepo: notifyRepo,
		counter:    counter,
	}
}

func TestRecordViewUnknownReport(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.RecordView(context.Background(), 404)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestRecordViewSeedsFromSnapshot(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	require.NoError(t, f.reportRepo.CreateReport(ctx, &model.Report{ID: 1, UserID: 1, Title: "寻猫", ViewCount: 4}))

	view, err := f.svc.RecordView(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), view.ViewCount)

	view, err = f.svc.RecordView(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), view.ViewCount)

	assert.True(t, f.counter.dirty[1])
}

// 并发浏览每个请求都要拿到各不相同的精确值，总数不丢不重
func TestRecordViewConcurrent(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	require.NoError(t, f.reportRepo.CreateReport(ctx, &model.Report{ID: 1, UserID: 1, Title: "寻猫"}))

	const clients = 50
	results := make(chan int64, clients)
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			view, err := f.svc.RecordView(ctx, 1)
			assert.NoError(t, err)
			results <- view.ViewCount
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, clients)
	var maxSeen int64
	for v := range results {
		assert.False(t, seen[v], "duplicate view count %d", v)
		seen[v] = true
		if v > maxSeen {
			maxSeen = v
		}
	}
	assert.Len(t, seen, clients)
	assert.Equal(t, int64(clients), maxSeen)
}

func TestGetReportPrefersLiveCounter(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	require.NoError(t, f.reportRepo.CreateReport(ctx, &model.Report{ID: 1, UserID: 3, Title: "寻猫", ViewCount: 7}))
	f.userRepo.add(&model.User{ID: 3, Nickname: "阿宁"})

	// 计数器没热起来，用行内快照
	report, err := f.svc.GetReport(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), report.ViewCount)
	assert.Equal(t, "阿宁", report.OwnerName)

	_, err = f.svc.RecordView(ctx, 1)
	require.NoError(t, err)

	report, err = f.svc.GetReport(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), report.ViewCount)

	_, err = f.svc.GetReport(ctx, 2)
	assert.ErrorIs(t, err, ErrReportNotFound)
}

func TestResolveReport(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()
	require.NoError(t, f.reportRepo.CreateReport(ctx, &model.Report{ID: 1, UserID: 3, Title: "寻猫"}))

	// 非归属者与报告不存在同错
	err := f.svc.ResolveReport(ctx, 9, 1)
	assert.ErrorIs(t, err, ErrReportNotFound)
	err = f.svc.ResolveReport(ctx, 3, 2)
	assert.ErrorIs(t, err, ErrReportNotFound)

	require.NoError(t, f.svc.ResolveReport(ctx, 3, 1))
	report, _ := f.reportRepo.GetReportById(ctx, 1)
	assert.EqualValues(t, consts.ReportStatusResolved, report.Status)

	notices := f.notifyRepo.byUser(3)
	require.Len(t, notices, 1)
	assert.Equal(t, consts.NotifyTypeReportResolved, notices[0].Type)

	// 重复解决是无操作成功，不重复投递通知
	require.NoError(t, f.svc.ResolveReport(ctx, 3, 1))
	assert.Len(t, f.notifyRepo.byUser(3), 1)
}
