package service

import (
	"errors"
	"fmt"
	"testing"

	"bizhood/internal/model"
	"bizhood/internal/pkg"
)

func TestCreateBusinessRequiresEnterp(t *testing.T) {
	r := newRepos(newTestDB(t))
	svc := NewBusinessService(r.businesses, r.communities, r.users)
	plain := seedUser(t, r, "dev-plain", false, false)

	_, err := svc.CreateBusiness(plain.ID, "Bakery", "fresh bread", nil)
	if !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateBusinessCap(t *testing.T) {
	r := newRepos(newTestDB(t))
	svc := NewBusinessService(r.businesses, r.communities, r.users)
	owner := seedUser(t, r, "dev-owner", true, false)

	// 前 4 家随便建
	for i := 0; i < 4; i++ {
		if _, err := svc.CreateBusiness(owner.ID, fmt.Sprintf("shop-%d", i), "bio", nil); err != nil {
			t.Fatalf("create business %d: %v", i, err)
		}
	}

	// 已有 4 家，第 5 家成功
	if _, err := svc.CreateBusiness(owner.ID, "shop-4", "bio", nil); err != nil {
		t.Fatalf("fifth business should succeed, got %v", err)
	}

	// 已有 5 家，第 6 家被拒
	_, err := svc.CreateBusiness(owner.ID, "shop-5", "bio", nil)
	if !errors.Is(err, pkg.ErrTooManyBusinesses) {
		t.Fatalf("expected ErrTooManyBusinesses, got %v", err)
	}
}

func TestCreateBusinessNameConflict(t *testing.T) {
	r := newRepos(newTestDB(t))
	svc := NewBusinessService(r.businesses, r.communities, r.users)
	owner := seedUser(t, r, "dev-owner", true, false)
	other := seedUser(t, r, "dev-other", true, false)

	if _, err := svc.CreateBusiness(owner.ID, "Bakery", "bio", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	// 同 owner 同名冲突
	_, err := svc.CreateBusiness(owner.ID, "Bakery", "bio", nil)
	if !errors.Is(err, pkg.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// 同 owner 不同名 OK
	if _, err := svc.CreateBusiness(owner.ID, "Cafe", "bio", nil); err != nil {
		t.Fatalf("different name should succeed, got %v", err)
	}

	// 不同 owner 同名 OK
	if _, err := svc.CreateBusiness(other.ID, "Bakery", "bio", nil); err != nil {
		t.Fatalf("different owner should succeed, got %v", err)
	}
}

func TestCreateBusinessLenientResolution(t *testing.T) {
	r := newRepos(newTestDB(t))
	commSvc := NewCommunityService(r.communities, r.users)
	svc := NewBusinessService(r.businesses, r.communities, r.users)
	owner := seedUser(t, r, "dev-owner", true, false)
	community := seedCommunity(t, commSvc, owner.ID, "cooks")

	// 宽松策略：不存在的社区 id 静默跳过
	business, err := svc.CreateBusiness(owner.ID, "Bakery", "bio", []uint64{community.ID, 9999})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	ids, err := r.businesses.AffiliatedCommunityIDs(business.ID)
	if err != nil {
		t.Fatalf("affiliations: %v", err)
	}
	if len(ids) != 1 || ids[0] != community.ID {
		t.Fatalf("expected affiliations [%d], got %v", community.ID, ids)
	}
}

func TestCreateBusinessStrictResolution(t *testing.T) {
	r := newRepos(newTestDB(t))
	svc := NewBusinessService(r.businesses, r.communities, r.users).WithResolvePolicy(ResolveStrict)
	owner := seedUser(t, r, "dev-owner", true, false)

	_, err := svc.CreateBusiness(owner.ID, "Bakery", "bio", []uint64{9999})
	if !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("strict policy should reject unknown id, got %v", err)
	}
}

func TestEditBusinessAffiliations(t *testing.T) {
	r := newRepos(newTestDB(t))
	commSvc := NewCommunityService(r.communities, r.users)
	svc := NewBusinessService(r.businesses, r.communities, r.users)
	owner := seedUser(t, r, "dev-owner", true, false)
	cooks := seedCommunity(t, commSvc, owner.ID, "cooks")
	bakers := seedCommunity(t, commSvc, owner.ID, "bakers")

	business, err := svc.CreateBusiness(owner.ID, "Bakery", "bio", []uint64{cooks.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// nil 不动关联
	newBio := "updated bio"
	if err := svc.EditBusiness(business.ID, owner.ID, &newBio, nil); err != nil {
		t.Fatalf("edit bio: %v", err)
	}
	view, err := svc.GetBusiness(business.ID, owner.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Business.Bio != newBio {
		t.Errorf("bio: expected %q, got %q", newBio, view.Business.Bio)
	}
	if len(view.CommunityIDs) != 1 || view.CommunityIDs[0] != cooks.ID {
		t.Errorf("nil community_ids must not touch affiliations, got %v", view.CommunityIDs)
	}

	// 非 nil 整体替换
	if err := svc.EditBusiness(business.ID, owner.ID, nil, []uint64{bakers.ID}); err != nil {
		t.Fatalf("edit affiliations: %v", err)
	}
	view, _ = svc.GetBusiness(business.ID, owner.ID)
	if len(view.CommunityIDs) != 1 || view.CommunityIDs[0] != bakers.ID {
		t.Errorf("expected affiliations replaced with [%d], got %v", bakers.ID, view.CommunityIDs)
	}

	// 空切片清空
	if err := svc.EditBusiness(business.ID, owner.ID, nil, []uint64{}); err != nil {
		t.Fatalf("clear affiliations: %v", err)
	}
	view, _ = svc.GetBusiness(business.ID, owner.ID)
	if len(view.CommunityIDs) != 0 {
		t.Errorf("empty list must clear affiliations, got %v", view.CommunityIDs)
	}
}

func TestEditBusinessNotOwner(t *testing.T) {
	r := newRepos(newTestDB(t))
	svc := NewBusinessService(r.businesses, r.communities, r.users)
	owner := seedUser(t, r, "dev-owner", true, false)
	stranger := seedUser(t, r, "dev-stranger", true, false)

	business, err := svc.CreateBusiness(owner.ID, "Bakery", "bio", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 非所有者一律 NotFound，不暴露存在性
	bio := "hijack"
	if err := svc.EditBusiness(business.ID, stranger.ID, &bio, nil); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("edit: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetBusiness(business.ID, stranger.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteBusiness(business.ID, stranger.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestVerifyBusiness(t *testing.T) {
	r := newRepos(newTestDB(t))
	svc := NewBusinessService(r.businesses, r.communities, r.users)
	owner := seedUser(t, r, "dev-owner", true, false)
	friend := seedUser(t, r, "dev-friend", false, false)

	business, err := svc.CreateBusiness(owner.ID, "Bakery", "bio", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.VerifyBusiness(9999, friend.ID, "use"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("verify missing business: expected ErrNotFound, got %v", err)
	}

	// 重复认证和自认证都允许
	for _, v := range []struct {
		author uint64
		vtype  string
	}{
		{friend.ID, "use"},
		{friend.ID, "use"},
		{owner.ID, "coop"},
	} {
		if err := svc.VerifyBusiness(business.ID, v.author, v.vtype); err != nil {
			t.Fatalf("verify: %v", err)
		}
	}

	view, err := svc.GetBusiness(business.ID, owner.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Verifications["use"] != 2 || view.Verifications["coop"] != 1 {
		t.Errorf("expected counts use=2 coop=1, got %v", view.Verifications)
	}

	// 认证事务同时落 outbox 事件
	events, err := r.outbox.List(t.Context(), 10)
	if err != nil {
		t.Fatalf("outbox list: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 outbox events, got %d", len(events))
	}
}

func TestDeleteBusinessCascade(t *testing.T) {
	r := newRepos(newTestDB(t))
	commSvc := NewCommunityService(r.communities, r.users)
	svc := NewBusinessService(r.businesses, r.communities, r.users)
	owner := seedUser(t, r, "dev-owner", true, false)
	community := seedCommunity(t, commSvc, owner.ID, "cooks")

	business, err := svc.CreateBusiness(owner.ID, "Bakery", "bio", []uint64{community.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.VerifyBusiness(business.ID, owner.ID, "seen"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.VerifyBusiness(business.ID, owner.ID, "use"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// 第一条事件已投递，第二条还挂在队列里
	events, err := r.outbox.List(t.Context(), 10)
	if err != nil {
		t.Fatalf("outbox list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 pending events, got %d", len(events))
	}
	if err := r.outbox.SuccessUpdate(t.Context(), events[0].ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	if err := svc.DeleteBusiness(business.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.GetBusiness(business.ID, owner.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	ids, _ := r.businesses.AffiliatedCommunityIDs(business.ID)
	if len(ids) != 0 {
		t.Errorf("affiliations not cascaded: %v", ids)
	}
	counts, _ := r.businesses.VerificationCounts(business.ID)
	if len(counts) != 0 {
		t.Errorf("verifications not cascaded: %v", counts)
	}

	// 未投递事件随商家删掉，已投递的保留为历史
	pending, err := r.outbox.List(t.Context(), 10)
	if err != nil {
		t.Fatalf("outbox list: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending events not cascaded: %d left", len(pending))
	}
	var total int64
	if err := r.outbox.DB.Model(&model.VerifyOutbox{}).Count(&total).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 1 {
		t.Errorf("expected the sent event to survive, got %d rows", total)
	}
}

func TestEndToEndScenario(t *testing.T) {
	r := newRepos(newTestDB(t))
	commSvc := NewCommunityService(r.communities, r.users)
	svc := NewBusinessService(r.businesses, r.communities, r.users)

	// A 注册为 enterp 用户，建社区 cooks，开店 Bakery
	a := seedUser(t, r, "dev-a", true, false)
	b := seedUser(t, r, "dev-b", false, false)
	cooks := seedCommunity(t, commSvc, a.ID, "cooks")

	bakery, err := svc.CreateBusiness(a.ID, "Bakery", "fresh bread", []uint64{cooks.ID})
	if err != nil {
		t.Fatalf("create business: %v", err)
	}

	// B 用 "use" 认证
	if err := svc.VerifyBusiness(bakery.ID, b.ID, "use"); err != nil {
		t.Fatalf("verify: %v", err)
	}

	view, err := svc.GetBusiness(bakery.ID, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Verifications["use"] != 1 {
		t.Errorf("expected verifications use=1, got %v", view.Verifications)
	}
	if len(view.CommunityIDs) != 1 || view.CommunityIDs[0] != cooks.ID {
		t.Errorf("expected community_ids [%d], got %v", cooks.ID, view.CommunityIDs)
	}
}
