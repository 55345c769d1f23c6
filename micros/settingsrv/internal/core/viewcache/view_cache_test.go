package viewcache

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/external/emodel/usermodel"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core/ordermgr"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/repostories/attachrepo"
)

func attachRow(attachId int64, kind int16) attachrepo.AttachRow {
	return attachrepo.AttachRow{
		AttachId: attachId,
		MsgId:    attachId * 10,
		Kind:     kind,
		ThumbUrl: sql.NullString{String: "thumb", Valid: true},
		Cts:      1000 + attachId,
	}
}

func TestBuildRecentMediaBounded(t *testing.T) {
	rows := make([]attachrepo.AttachRow, 0, 8)
	for i := int64(1); i <= 8; i++ {
		rows = append(rows, attachRow(i, int16(core.AttachImage)))
	}

	items := BuildRecentMedia(rows)
	if len(items) != RecentMediaLimit {
		t.Fatalf("media cache must cap at %d, got:%d", RecentMediaLimit, len(items))
	}

	// 保留的是窗口里最前面的(也就是最新的)4条
	for i, it := range items {
		if it.AttachId != int64(i+1) {
			t.Fatalf("unexpected item order: %+v", items)
		}
	}
}

func TestBuildRecentMediaDropsMalformed(t *testing.T) {
	rows := []attachrepo.AttachRow{
		attachRow(1, int16(core.AttachVideo)),
		attachRow(2, 99), // 非法kind
		{AttachId: 0, Kind: int16(core.AttachImage)}, // 主键缺失
		attachRow(1, int16(core.AttachVideo)),        // 重复
		attachRow(3, int16(core.AttachAudio)),
	}

	items := BuildRecentMedia(rows)

	got := make([]int64, 0, len(items))
	for _, it := range items {
		got = append(got, it.AttachId)
	}

	want := []int64{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("malformed rows must be dropped row-wise, want:%v, got:%v", want, got)
	}
}

func TestBuildMembershipP2pEmpty(t *testing.T) {
	profile := chatmodel.P2pProfile("p2p:u_a:u_b", "u_b")

	mv := BuildMembership(profile, []core.Participant{{Uid: "u_x"}}, nil, "u_a", ordermgr.UidCollator())
	if mv.Items == nil || len(mv.Items) != 0 {
		t.Fatalf("p2p conversation must carry an empty(non-nil) membership view, got:%+v", mv)
	}
}

func TestBuildMembershipGroupOrderedWithVerify(t *testing.T) {
	profile := chatmodel.GroupProfile("grp:g100", "g100")

	members := []core.Participant{
		{Uid: "u_b", Role: chatmodel.OrdinaryMeb, Nickname: "bob"},
		{Uid: "u_l", Role: chatmodel.OrdinaryMeb, Nickname: "me"},
		{Uid: "u_a", Role: chatmodel.Owner, Nickname: "alice"},
	}

	mv := BuildMembership(
		profile,
		members,
		map[string]usermodel.VerifyState{"u_a": usermodel.Verified},
		"u_l",
		ordermgr.UidCollator(),
	)

	if len(mv.Items) != 3 {
		t.Fatalf("want 3 items, got:%+v", mv.Items)
	}

	if mv.Items[0].Uid != "u_l" || mv.Items[1].Uid != "u_a" || mv.Items[2].Uid != "u_b" {
		t.Fatalf("unexpected order: %v", mv.Uids())
	}

	if mv.Items[1].Verify != usermodel.Verified {
		t.Fatal("verify state lost for u_a")
	}

	if mv.Items[2].Verify != usermodel.VerifyDefault {
		t.Fatal("missing identity row must degrade to default verify state")
	}
}

func TestBuildMutualGroupsGroupConvEmpty(t *testing.T) {
	profile := chatmodel.GroupProfile("grp:g100", "g100")

	mgv := BuildMutualGroups(profile, []string{"g1", "g2"}, true)
	if mgv.GroupConvIds == nil || len(mgv.GroupConvIds) != 0 || mgv.AnyGroupExists {
		t.Fatalf("group conversation must yield empty mutual view, got:%+v", mgv)
	}
}

func TestBuildMutualGroupsP2p(t *testing.T) {
	profile := chatmodel.P2pProfile("p2p:u_a:u_b", "u_b")

	mgv := BuildMutualGroups(profile, []string{"g1"}, true)
	if len(mgv.GroupConvIds) != 1 || mgv.GroupConvIds[0] != chatmodel.GenerateGroupChatConvId("g1") {
		t.Fatalf("unexpected mutual view: %+v", mgv)
	}

	// 无共同群但用户有群: 区分"无共同"和"没群"
	mgv = BuildMutualGroups(profile, nil, true)
	if len(mgv.GroupConvIds) != 0 || !mgv.AnyGroupExists {
		t.Fatalf("probe flag must survive empty mutual list, got:%+v", mgv)
	}
}

func TestSettViewCacheReplaceWhole(t *testing.T) {
	vc := NewSettViewCache()
	if vc.Loaded() {
		t.Fatal("fresh cache must not be loaded")
	}

	vc.Replace(core.ViewState{
		Profile: chatmodel.P2pProfile("p2p:u_a:u_b", "u_b"),
	})

	if !vc.Loaded() {
		t.Fatal("cache must be loaded after replace")
	}

	st := vc.View()
	if st.Profile.ConvId != "p2p:u_a:u_b" || st.RefreshTs == 0 {
		t.Fatalf("unexpected state: %+v", st)
	}
}
