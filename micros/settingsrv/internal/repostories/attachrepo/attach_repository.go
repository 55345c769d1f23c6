package attachrepo

import (
	"context"
	"database/sql"

	"github.com/gocraft/dbr/v2"
)

type AttachState int8

const (
	AttachUploading AttachState = 1
	AttachReady     AttachState = 2
	AttachPurged    AttachState = 3
)

// AttachRow t_msg_attach的原始行, kind的合法性由上层判定(脏行直接丢弃)
type AttachRow struct {
	AttachId int64
	MsgId    int64
	Kind     int16
	ThumbUrl sql.NullString
	Cts      int64
}

type AttachRepository interface {
	// FindRecentAttaches 会话最近的可用附件, 按时间倒序(最新在前)
	FindRecentAttaches(ctx context.Context, tx *dbr.Tx, convId string, limit int) ([]AttachRow, error)
}

type attachRepository struct {
}

func NewAttachRepository() AttachRepository {
	return &attachRepository{}
}

func (ar *attachRepository) FindRecentAttaches(ctx context.Context, tx *dbr.Tx, convId string, limit int) ([]AttachRow, error) {
	var rows []AttachRow
	_, err := tx.Select("attach_id, msg_id, kind, thumb_url, cts").
		From("t_msg_attach").
		Where("conv_id = ? and state = ?", convId, AttachReady).
		OrderDesc("cts").
		OrderDesc("attach_id").
		Limit(uint64(limit)).
		LoadContext(ctx, &rows)

	if err != nil {
		return nil, err
	}

	return rows, nil
}
