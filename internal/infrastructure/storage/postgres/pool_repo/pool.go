// Package pool_repo provides the PostgreSQL implementation of partspool.Repository.
package pool_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/infrastructure/storage/postgres"
)

// PoolRepo implements partspool.Repository.
type PoolRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ partspool.Repository = (*PoolRepo)(nil)

// NewPoolRepo creates a new parts pool repository.
func NewPoolRepo(txManager *postgres.TxManager) *PoolRepo {
	return &PoolRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type groupRow struct {
	Key  string `db:"key"`
	Name string `db:"name"`
}

type memberRow struct {
	GroupKey string `db:"group_key"`
	Model    string `db:"model"`
}

type sharedTypeRow struct {
	GroupKey  string              `db:"group_key"`
	PartsType partspool.PartsType `db:"parts_type"`
}

// ListGroups implements partspool.Repository. Members come back in declared order.
func (r *PoolRepo) ListGroups(ctx context.Context) ([]partspool.Group, error) {
	querier := r.txManager.GetQuerier(ctx)

	var groups []groupRow
	sql, args, err := r.builder.Select("key", "name").From("parts_pool_groups").OrderBy("key").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &groups, sql, args...); err != nil {
		return nil, fmt.Errorf("select groups: %w", err)
	}

	var members []memberRow
	sql, args, err = r.builder.Select("group_key", "model").From("parts_pool_members").OrderBy("group_key", "position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &members, sql, args...); err != nil {
		return nil, fmt.Errorf("select group members: %w", err)
	}

	var shared []sharedTypeRow
	sql, args, err = r.builder.Select("group_key", "parts_type").From("parts_pool_shared_types").OrderBy("group_key", "parts_type").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &shared, sql, args...); err != nil {
		return nil, fmt.Errorf("select shared types: %w", err)
	}

	return assembleGroups(groups, members, shared), nil
}

func assembleGroups(groups []groupRow, members []memberRow, shared []sharedTypeRow) []partspool.Group {
	out := make([]partspool.Group, len(groups))
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		out[i] = partspool.Group{Key: g.Key, Name: g.Name}
		index[g.Key] = i
	}
	for _, m := range members {
		if i, ok := index[m.GroupKey]; ok {
			out[i].Members = append(out[i].Members, m.Model)
		}
	}
	for _, s := range shared {
		if i, ok := index[s.GroupKey]; ok {
			out[i].SharedTypes = append(out[i].SharedTypes, s.PartsType)
		}
	}
	return out
}

// ListModels implements partspool.Repository.
func (r *PoolRepo) ListModels(ctx context.Context) ([]partspool.DeviceModel, error) {
	sql, args, err := r.builder.
		Select(postgres.DBColumns[partspool.DeviceModel]()...).
		From("device_models").
		OrderBy("sort_order", "code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var models []partspool.DeviceModel
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &models, sql, args...); err != nil {
		return nil, fmt.Errorf("select device models: %w", err)
	}
	return models, nil
}
