package organizer

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/archsync/pkg/dateutil"
	"github.com/harrisonrobin/archsync/pkg/model"
	"github.com/harrisonrobin/archsync/pkg/store"
)

// SampleProfileName is stored by Seed so later runs skip seeding.
const SampleProfileName = "김지수"

// Seed writes sample data the first time the store is used, detected by the
// profile never having been written. It reports whether it seeded.
func (o *Organizer) Seed(ctx context.Context) (bool, error) {
	has, err := o.gw.Has(ctx, store.UserProfile)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}

	now := o.now()
	day := func(offset int) string {
		return dateutil.ISODate(dateutil.Midnight(now).AddDate(0, 0, offset))
	}

	if err := store.Save(ctx, o.gw, store.Tasks, []model.Task{
		{ID: "t1", Name: "모델 제작", Assignee: "이철민 (메모용)", Status: model.StatusInProgress, DueDate: day(0), CreatedAt: now},
		{ID: "t2", Name: "패널 레이아웃 수정", Assignee: "김지수", Status: model.StatusPending, DueDate: day(3), CreatedAt: now},
	}); err != nil {
		return false, fmt.Errorf("seeding tasks: %w", err)
	}
	if err := store.Save(ctx, o.gw, store.Resources, []model.Resource{
		{ID: "r1", Name: "v3 최종 패널", URL: "https://docs.google.com/document/d/example", Category: "패널 링크", Registrant: "김지수 (메모용)", Version: "v3", CreatedAt: now},
		{ID: "r2", Name: "레퍼런스 사이트", URL: "https://www.pinterest.com/example", Category: "리서치 사이트", Registrant: "이철민", CreatedAt: now},
	}); err != nil {
		return false, fmt.Errorf("seeding resources: %w", err)
	}
	if err := store.Save(ctx, o.gw, store.Feeds, []model.Feed{
		{ID: "f1", Title: "2차 크리틱 피드백", Content: "매스 재검토 필요...", Type: model.FeedFeedback, Author: "김지수 (메모용)"},
		{ID: "f2", Title: "팀 회의록", Content: "다음 주까지 모델 작업 완료하기", Type: model.FeedMeeting, Author: "김지수"},
	}); err != nil {
		return false, fmt.Errorf("seeding feeds: %w", err)
	}
	if err := store.Save(ctx, o.gw, store.Events, []model.Event{
		{ID: "e1", Name: "2차 크리틱", Date: day(7), CreatedAt: now},
		{ID: "e2", Name: "최종 마감", Date: day(30), CreatedAt: now},
	}); err != nil {
		return false, fmt.Errorf("seeding events: %w", err)
	}
	// The profile marks the store as seeded, so it goes last.
	if err := o.gw.SaveProfile(ctx, model.Profile{Name: SampleProfileName}); err != nil {
		return false, err
	}
	return true, nil
}
