package ordermgr

import (
	"sort"
	"strings"

	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator uid间的全序比较, 负数表示a排在b前
type Collator func(a, b string) int

// NicknameCollator 按昵称的本地化排序, 昵称相同(或都缺失)时退化到uid字典序,
// 保证同一输入在任何locale下都是确定性全序
func NicknameCollator(tag language.Tag, uid2name map[string]string) Collator {
	col := collate.New(tag, collate.IgnoreCase)

	return func(a, b string) int {
		na, nb := uid2name[a], uid2name[b]
		if r := col.CompareString(na, nb); r != 0 {
			return r
		}

		return strings.Compare(a, b)
	}
}

// UidCollator 纯uid字典序, collator缺失时的兜底
func UidCollator() Collator {
	return strings.Compare
}

// OrderMembers 计算成员展示顺序:
//  1. localUid在场则永远第一个(无论角色)
//  2. 其余成员先按collator整体排序, 再稳定切分成 管理员段 + 普通段
//
// 入参不会被修改, 空切片返回空切片(非nil), 同样入参重复调用结果一致
func OrderMembers(members []core.Participant, localUid string, cltr Collator) []string {
	if cltr == nil {
		cltr = UidCollator()
	}

	ordered := make([]string, 0, len(members))
	if len(members) == 0 {
		return ordered
	}

	var (
		localPresent bool
		rest         = make([]core.Participant, 0, len(members))
	)
	for _, meb := range members {
		if meb.Uid == localUid {
			localPresent = true
			continue
		}

		rest = append(rest, meb)
	}

	// 先整体collate, 分段时各段内部顺序自然继承
	sort.SliceStable(rest, func(i, j int) bool {
		return cltr(rest[i].Uid, rest[j].Uid) < 0
	})

	if localPresent {
		ordered = append(ordered, localUid)
	}

	for _, meb := range rest {
		if chatmodel.IsAdminRole(meb.Role) {
			ordered = append(ordered, meb.Uid)
		}
	}

	for _, meb := range rest {
		if !chatmodel.IsAdminRole(meb.Role) {
			ordered = append(ordered, meb.Uid)
		}
	}

	return ordered
}

// OrderMemberItems 同OrderMembers, 但带着展示字段一起排
func OrderMemberItems(members []core.Participant, localUid string, cltr Collator) []core.Participant {
	uid2meb := make(map[string]core.Participant, len(members))
	for _, meb := range members {
		uid2meb[meb.Uid] = meb
	}

	uids := OrderMembers(members, localUid, cltr)

	items := make([]core.Participant, 0, len(uids))
	for _, uid := range uids {
		items = append(items, uid2meb[uid])
	}

	return items
}
