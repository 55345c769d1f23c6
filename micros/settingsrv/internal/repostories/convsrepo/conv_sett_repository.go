package convsrepo

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/gocraft/dbr/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sweemingdow/sdconv/external/eglobal/chatconst"
	"github.com/sweemingdow/sdconv/external/emodel/chatmodel"
	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/core"
	"github.com/sweemingdow/sdconv/pkg/credis"
	"github.com/sweemingdow/sdconv/pkg/csql"
)

type (
	convRow struct {
		ConvId       string
		ConvType     int8
		DisappearSec sql.NullInt64
		Uts          sql.NullInt64
	}

	convItemRow struct {
		RelationId string
		MuteUntil  sql.NullInt64
		ColorName  sql.NullString
		Uts        sql.NullInt64
	}
)

const settSyncLuaScript = `
local hk = KEYS[1]
redis.call('HSET', hk, ARGV[1], ARGV[2], 'uts', ARGV[3])
return ARGV[3]
`

const (
	settKeyPrefix   = "conv_sett:"
	DisappearSecKey = "disappear_sec"
	muteKeyPrefix   = "m:"
	colorKeyPrefix  = "c:"
)

/*
设置在redis存储的是个hash结构
hashKey: conv_sett:{convId}
sub-fields:

	disappear_sec: 阅后即焚时长, 会话级
	m:{uid}: 该用户的静音截止时间
	c:{uid}: 该用户的会话配色
	uts: 最近一次设置变更时间
*/
type (
	ConvSettRepository interface {
		// FindConvProfile 快照内读会话画像, 会话不存在(或对该用户不可见)时返回core.ErrConvGone
		FindConvProfile(ctx context.Context, tx *dbr.Tx, convId, ownerUid string) (chatmodel.ConvProfile, error)

		UpdateMuteUntil(ctx context.Context, convId, ownerUid string, muteUntil int64) (int64, error)

		UpdateDisappear(ctx context.Context, convId string, disappearSec int64) (int64, error)

		UpdateColor(ctx context.Context, convId, ownerUid, colorName string) (int64, error)
	}

	convSettRepository struct {
		sc *csql.SqlClient

		rc *credis.RedisClient

		syncScript *redis.Script
	}
)

func NewConvSettRepository(sc *csql.SqlClient, rc *credis.RedisClient) ConvSettRepository {
	return &convSettRepository{
		sc:         sc,
		rc:         rc,
		syncScript: redis.NewScript(settSyncLuaScript),
	}
}

func (csr *convSettRepository) FindConvProfile(ctx context.Context, tx *dbr.Tx, convId, ownerUid string) (chatmodel.ConvProfile, error) {
	var cRow convRow
	err := tx.Select("conv_id, conv_type, disappear_sec, uts").
		From("t_conv").
		Where("conv_id = ?", convId).
		LoadOneContext(ctx, &cRow)

	if err != nil {
		if errors.Is(err, dbr.ErrNotFound) {
			return chatmodel.ConvProfile{}, core.ErrConvGone
		}

		return chatmodel.ConvProfile{}, err
	}

	var iRow convItemRow
	err = tx.Select("relation_id, mute_until, color_name, uts").
		From("t_conv_item").
		Where("conv_id = ? and owner_uid = ?", convId, ownerUid).
		LoadOneContext(ctx, &iRow)

	if err != nil {
		if errors.Is(err, dbr.ErrNotFound) {
			// 会话还在但该用户的条目没了(被删除会话), 对用户来说等同于gone
			return chatmodel.ConvProfile{}, core.ErrConvGone
		}

		return chatmodel.ConvProfile{}, err
	}

	var profile chatmodel.ConvProfile
	if chatconst.ConvType(cRow.ConvType) == chatconst.GroupConv {
		profile = chatmodel.GroupProfile(convId, iRow.RelationId)
	} else {
		profile = chatmodel.P2pProfile(convId, iRow.RelationId)
	}

	profile.MuteUntil = iRow.MuteUntil.Int64
	profile.DisappearSec = cRow.DisappearSec.Int64
	profile.ColorName = iRow.ColorName.String
	profile.Uts = maxI64(cRow.Uts.Int64, iRow.Uts.Int64)

	return profile, nil
}

func (csr *convSettRepository) UpdateMuteUntil(ctx context.Context, convId, ownerUid string, muteUntil int64) (int64, error) {
	uts := time.Now().UnixMilli()

	err := csr.sc.WithTransCtx(ctx, func(_ context.Context, tx *dbr.Tx) error {
		rs, e := tx.UpdateBySql(
			`update t_conv_item set mute_until = ?, uts = ? where conv_id = ? and owner_uid = ?`,
			muteUntil,
			uts,
			convId,
			ownerUid,
		).Exec()

		if e != nil {
			return e
		}

		affected, e := rs.RowsAffected()
		if e != nil {
			return e
		}

		if affected == 0 {
			return core.ErrConvGone
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	if err = csr.syncToRedis(ctx, convId, muteKeyPrefix+ownerUid, strconv.FormatInt(muteUntil, 10), uts); err != nil {
		return 0, err
	}

	return uts, nil
}

func (csr *convSettRepository) UpdateDisappear(ctx context.Context, convId string, disappearSec int64) (int64, error) {
	uts := time.Now().UnixMilli()

	err := csr.sc.WithTransCtx(ctx, func(_ context.Context, tx *dbr.Tx) error {
		rs, e := tx.UpdateBySql(
			`update t_conv set disappear_sec = ?, uts = ? where conv_id = ?`,
			disappearSec,
			uts,
			convId,
		).Exec()

		if e != nil {
			return e
		}

		affected, e := rs.RowsAffected()
		if e != nil {
			return e
		}

		if affected == 0 {
			return core.ErrConvGone
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	if err = csr.syncToRedis(ctx, convId, DisappearSecKey, strconv.FormatInt(disappearSec, 10), uts); err != nil {
		return 0, err
	}

	return uts, nil
}

func (csr *convSettRepository) UpdateColor(ctx context.Context, convId, ownerUid, colorName string) (int64, error) {
	uts := time.Now().UnixMilli()

	err := csr.sc.WithTransCtx(ctx, func(_ context.Context, tx *dbr.Tx) error {
		rs, e := tx.UpdateBySql(
			`update t_conv_item set color_name = ?, uts = ? where conv_id = ? and owner_uid = ?`,
			colorName,
			uts,
			convId,
			ownerUid,
		).Exec()

		if e != nil {
			return e
		}

		affected, e := rs.RowsAffected()
		if e != nil {
			return e
		}

		if affected == 0 {
			return core.ErrConvGone
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	if err = csr.syncToRedis(ctx, convId, colorKeyPrefix+ownerUid, colorName, uts); err != nil {
		return 0, err
	}

	return uts, nil
}

func (csr *convSettRepository) syncToRedis(ctx context.Context, convId, field, value string, uts int64) error {
	return csr.rc.With(func(cli redis.UniversalClient) error {
		return csr.syncScript.Run(
			ctx,
			cli,
			[]string{pkgSettKey(convId)},
			field,
			value,
			strconv.FormatInt(uts, 10),
		).Err()
	})
}

func pkgSettKey(convId string) string {
	return settKeyPrefix + convId
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}

	return b
}
