package partrepo

import (
	"context"
	"database/sql"

	"github.com/gocraft/dbr/v2"
	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/external/emodel/usermodel"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
)

type groupMebRow struct {
	Uid         string
	Role        int8
	State       int8
	MebNickname sql.NullString
}

type identityRow struct {
	Uid         string
	VerifyState int8
}

type ParticipantRepository interface {
	// FindFullMembers 群的正式成员(不含被踢/邀请中/申请中)
	FindFullMembers(ctx context.Context, tx *dbr.Tx, groupNo string) ([]core.Participant, error)

	// VerifyStates 一批用户的安全号码验证状态, 没有记录的uid不会出现在结果里
	VerifyStates(ctx context.Context, tx *dbr.Tx, uids []string) (map[string]usermodel.VerifyState, error)
}

type participantRepository struct {
}

func NewParticipantRepository() ParticipantRepository {
	return &participantRepository{}
}

func (pr *participantRepository) FindFullMembers(ctx context.Context, tx *dbr.Tx, groupNo string) ([]core.Participant, error) {
	var rows []groupMebRow
	_, err := tx.Select("uid, role, state, meb_nickname").
		From("t_group_item").
		Where("group_no = ? and state = ?", groupNo, chatmodel.GrpMebNormal).
		LoadContext(ctx, &rows)

	if err != nil {
		return nil, err
	}

	members := make([]core.Participant, 0, len(rows))
	for _, row := range rows {
		members = append(members, core.Participant{
			Uid:      row.Uid,
			Role:     chatmodel.GroupRole(row.Role),
			State:    chatmodel.GroupMebState(row.State),
			Nickname: row.MebNickname.String,
		})
	}

	return members, nil
}

func (pr *participantRepository) VerifyStates(ctx context.Context, tx *dbr.Tx, uids []string) (map[string]usermodel.VerifyState, error) {
	if len(uids) == 0 {
		return map[string]usermodel.VerifyState{}, nil
	}

	var rows []identityRow
	_, err := tx.Select("uid, verify_state").
		From("t_user_identity").
		Where("uid in ?", uids).
		LoadContext(ctx, &rows)

	if err != nil {
		return nil, err
	}

	uid2state := make(map[string]usermodel.VerifyState, len(rows))
	for _, row := range rows {
		uid2state[row.Uid] = usermodel.VerifyState(row.VerifyState)
	}

	return uid2state, nil
}
