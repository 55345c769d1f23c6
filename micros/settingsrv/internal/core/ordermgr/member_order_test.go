package ordermgr

import (
	"reflect"
	"testing"

	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"golang.org/x/text/language"
)

func meb(uid string, role chatmodel.GroupRole, nickname string) core.Participant {
	return core.Participant{
		Uid:      uid,
		Role:     role,
		State:    chatmodel.GrpMebNormal,
		Nickname: nickname,
	}
}

func TestOrderMembersLocalFirstThenAdmins(t *testing.T) {
	members := []core.Participant{
		meb("u_a", chatmodel.Manager, "alice"),
		meb("u_l", chatmodel.OrdinaryMeb, "me"),
		meb("u_b", chatmodel.OrdinaryMeb, "bob"),
		meb("u_c", chatmodel.Owner, "carol"),
	}

	got := OrderMembers(members, "u_l", NicknameCollator(language.English, map[string]string{
		"u_a": "alice",
		"u_b": "bob",
		"u_c": "carol",
	}))

	want := []string{"u_l", "u_a", "u_c", "u_b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order, want:%v, got:%v", want, got)
	}
}

func TestOrderMembersLocalAdminStillFirst(t *testing.T) {
	members := []core.Participant{
		meb("u_z", chatmodel.OrdinaryMeb, "zoe"),
		meb("u_l", chatmodel.Owner, "me"),
	}

	got := OrderMembers(members, "u_l", UidCollator())

	if len(got) != 2 || got[0] != "u_l" {
		t.Fatalf("local admin must head the list, got:%v", got)
	}
}

func TestOrderMembersLocalAbsent(t *testing.T) {
	members := []core.Participant{
		meb("u_b", chatmodel.OrdinaryMeb, "bob"),
		meb("u_a", chatmodel.Manager, "alice"),
	}

	// 自己不在成员里(已退群等), 不产生头元素, 分段不变
	got := OrderMembers(members, "u_gone", UidCollator())

	want := []string{"u_a", "u_b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want:%v, got:%v", want, got)
	}
}

func TestOrderMembersEmpty(t *testing.T) {
	got := OrderMembers(nil, "u_l", UidCollator())
	if got == nil || len(got) != 0 {
		t.Fatalf("empty input must yield empty(non-nil) output, got:%#v", got)
	}
}

func TestOrderMembersIdempotent(t *testing.T) {
	members := []core.Participant{
		meb("u_c", chatmodel.OrdinaryMeb, "carl"),
		meb("u_a", chatmodel.Owner, "anna"),
		meb("u_l", chatmodel.OrdinaryMeb, "me"),
		meb("u_b", chatmodel.Manager, "bea"),
	}

	cltr := NicknameCollator(language.English, map[string]string{
		"u_a": "anna",
		"u_b": "bea",
		"u_c": "carl",
	})

	first := OrderMembers(members, "u_l", cltr)
	for i := 0; i < 8; i++ {
		again := OrderMembers(members, "u_l", cltr)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("order must be stable across calls, first:%v, again:%v", first, again)
		}
	}
}

func TestOrderMembersPartitionStableAcrossCollators(t *testing.T) {
	members := []core.Participant{
		meb("u_1", chatmodel.Manager, "丁一"),
		meb("u_2", chatmodel.OrdinaryMeb, "Ω"),
		meb("u_3", chatmodel.Owner, "bob"),
		meb("u_4", chatmodel.OrdinaryMeb, "álvaro"),
	}

	uid2name := map[string]string{
		"u_1": "丁一",
		"u_2": "Ω",
		"u_3": "bob",
		"u_4": "álvaro",
	}

	// locale只影响段内次序, 不影响分段本身
	for _, tag := range []language.Tag{language.English, language.SimplifiedChinese, language.German} {
		got := OrderMembers(members, "u_l", NicknameCollator(tag, uid2name))

		if len(got) != 4 {
			t.Fatalf("lost members under %v: %v", tag, got)
		}

		adminSet := map[string]bool{"u_1": true, "u_3": true}
		for i, uid := range got {
			if i < 2 && !adminSet[uid] {
				t.Fatalf("admins must precede ordinary members under %v, got:%v", tag, got)
			}

			if i >= 2 && adminSet[uid] {
				t.Fatalf("ordinary member slot holds admin under %v, got:%v", tag, got)
			}
		}
	}
}

func TestOrderMembersRolePartitionPerRole(t *testing.T) {
	// 群主和管理员都算管理段, 普通成员不算
	members := []core.Participant{
		meb("u_o", chatmodel.OrdinaryMeb, "ord"),
		meb("u_m", chatmodel.Manager, "mgr"),
		meb("u_w", chatmodel.Owner, "own"),
	}

	got := OrderMembers(members, "u_none", UidCollator())

	want := []string{"u_m", "u_w", "u_o"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("owner and manager must both land in the admin segment, want:%v, got:%v", want, got)
	}
}

func TestNicknameCollatorFallbackToUid(t *testing.T) {
	cltr := NicknameCollator(language.English, map[string]string{
		"u_a": "same",
		"u_b": "same",
	})

	if cltr("u_a", "u_b") >= 0 {
		t.Fatal("equal nicknames must fall back to uid lexicographic order")
	}
}
