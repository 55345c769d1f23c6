package mutualrepo

import (
	"context"
	"errors"

	"github.com/gocraft/dbr/v2"
	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
)

type MutualGroupRepository interface {
	// FindMutualGroupNos 两人同时是正式成员的群, 仅单聊会话会用到
	FindMutualGroupNos(ctx context.Context, tx *dbr.Tx, uid, otherUid string) ([]string, error)

	// AnyGroupExists 用户是否至少在一个群里, 空结果展示要区分"无共同群"和"根本没群"
	AnyGroupExists(ctx context.Context, tx *dbr.Tx, uid string) (bool, error)
}

type mutualGroupRepository struct {
}

func NewMutualGroupRepository() MutualGroupRepository {
	return &mutualGroupRepository{}
}

func (mr *mutualGroupRepository) FindMutualGroupNos(ctx context.Context, tx *dbr.Tx, uid, otherUid string) ([]string, error) {
	var groupNos []string
	_, err := tx.SelectBySql(
		`select gi1.group_no from t_group_item gi1
inner join t_group_item gi2 on gi1.group_no = gi2.group_no
where gi1.uid = ? and gi2.uid = ? and gi1.state = ? and gi2.state = ?
order by gi1.cts desc`,
		uid,
		otherUid,
		chatmodel.GrpMebNormal,
		chatmodel.GrpMebNormal,
	).LoadContext(ctx, &groupNos)

	if err != nil {
		return nil, err
	}

	return groupNos, nil
}

func (mr *mutualGroupRepository) AnyGroupExists(ctx context.Context, tx *dbr.Tx, uid string) (bool, error) {
	var groupNo string
	err := tx.Select("group_no").
		From("t_group_item").
		Where("uid = ? and state = ?", uid, chatmodel.GrpMebNormal).
		Limit(1).
		LoadOneContext(ctx, &groupNo)

	if err != nil {
		if errors.Is(err, dbr.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
