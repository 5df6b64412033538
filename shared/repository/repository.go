package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"salon/infras/otel"
	"salon/infras/postgres"
	"salon/shared/constant"
	"salon/shared/dto"
	"salon/shared/logger"
	"slices"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
)

var (
	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("nothing to update")
)

type column struct {
	name  string
	table string
	alias string
}

// executor is satisfied by both *sqlx.DB and *sqlx.Tx.
type executor interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

// Repository is a reflection driven CRUD helper over a single table. Statements run inside
// the transaction carried by ctx (see postgres.WithTx) when there is one.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entitas       string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

func NewRepository[T any](entitasName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	reflectType := reflect.TypeOf(zero)
	columns, insertColumns := getColumns(tableName, reflectType)

	valueOf := reflect.ValueOf(zero)
	method := valueOf.MethodByName("GetJoinQuery")
	joinQueryStr := ""

	if method.IsValid() {
		joinQuery := method.Call([]reflect.Value{})

		if len(joinQuery) > 0 {
			joinQueryStr = joinQuery[0].String()
		}
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          joinQueryStr,
		InsertColumns: insertColumns,
	}
}

// Table returns the table the repository is bound to.
func (repo *Repository[T]) Table() string {
	return repo.table
}

func (repo *Repository[T]) reader(ctx context.Context) executor {
	if tx := postgres.TxFromContext(ctx); tx != nil {
		return tx
	}

	if postgres.ReadsPrimary(ctx) {
		return repo.db.Write
	}

	return repo.db.Read
}

func (repo *Repository[T]) writer(ctx context.Context) executor {
	if tx := postgres.TxFromContext(ctx); tx != nil {
		return tx
	}

	return repo.db.Write
}

func (repo *Repository[T]) spanName(operation string) string {
	return fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, operation)
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Insert"))
	defer scope.End()

	placeholders := make([]string, 0, len(repo.InsertColumns))

	for _, col := range repo.InsertColumns {
		placeholders = append(placeholders, ":"+col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = repo.writer(ctx).NamedExecContext(ctx, query, model); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to insert data (%s): %w", repo.entitas, err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Exist"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	exist := false

	if err := repo.get(ctx, query, &exist, args); err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check exist data (%s): %w", repo.entitas, err)
	}

	return exist, nil
}

// Get returns the first matching row. A missing row yields the zero value and no error.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.getOne(ctx, "Get", filter, "", columns...)
}

// GetForUpdate is Get with a row lock. It must run inside WithTx.
func (repo *Repository[T]) GetForUpdate(ctx context.Context, filter dto.FilterGroup) (T, error) {
	return repo.getOne(ctx, "GetForUpdate", filter, "FOR UPDATE")
}

func (repo *Repository[T]) getOne(ctx context.Context, operation string, filter dto.FilterGroup, suffix string, columns ...string) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName(operation))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	selectQuery := repo.getSelectQuery(columns...)

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s", selectQuery, repo.table, repo.join, where, suffix)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var model T

	err := repo.get(ctx, query, &model, args)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T

		return zero, nil
	}

	if err != nil {
		scope.TraceError(err)

		return model, fmt.Errorf("failed to get data (%s): %w", repo.entitas, err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("GetAll"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	selectQuery := repo.getSelectQuery(columns...)

	var pagination string

	if limit, offset := params.Window(); limit > 0 {
		args["limit"] = limit
		args["offset"] = offset

		pagination = "LIMIT :limit OFFSET :offset"
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s %s", selectQuery, repo.table, repo.join, where, params.Ordering(), pagination)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	if err := repo.selectAll(ctx, query, &models, args); err != nil {
		scope.TraceError(err)

		return models, fmt.Errorf("failed to get all data (%s): %w", repo.entitas, err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Count"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)

	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int

	if err := repo.get(ctx, query, &count, args); err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count data (%s): %w", repo.entitas, err)
	}

	return count, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Delete"))
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	affected, err := repo.Exec(ctx, query, args)
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to delete data (%s): %w", repo.entitas, err)
	}

	return affected, nil
}

// Update sets the given columns on every matching row and reports how many rows changed.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Update"))
	defer scope.End()

	if len(mod) == 0 {
		return 0, errEmptyUpdate
	}

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	cols := slices.Collect(maps.Keys(mod))
	sort.Strings(cols)

	updateField := make([]string, 0, len(cols))

	for _, col := range cols {
		updateField = append(updateField, fmt.Sprintf("%s = :set_%s", col, col))
		args["set_"+col] = mod[col]
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(updateField, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	affected, err := repo.Exec(ctx, query, args)
	if err != nil {
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to update data (%s): %w", repo.entitas, err)
	}

	return affected, nil
}

// Exec runs a named statement on the write side and returns the affected row count.
func (repo *Repository[T]) Exec(ctx context.Context, query string, args map[string]any) (int, error) {
	result, err := repo.writer(ctx).NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("exec (%s): %w", repo.entitas, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected (%s): %w", repo.entitas, err)
	}

	return int(affected), nil
}

// Select runs a named query and scans every row into dest.
func (repo *Repository[T]) Select(ctx context.Context, query string, dest any, args map[string]any) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Select"))
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err := repo.selectAll(ctx, query, dest, args); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to select data (%s): %w", repo.entitas, err)
	}

	return nil
}

// Scalar runs a named query expected to return one value.
func (repo *Repository[T]) Scalar(ctx context.Context, query string, dest any, args map[string]any) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, repo.spanName("Scalar"))
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err := repo.get(ctx, query, dest, args); err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to query value (%s): %w", repo.entitas, err)
	}

	return nil
}

func (repo *Repository[T]) get(ctx context.Context, query string, dest any, args map[string]any) error {
	prepare, err := repo.reader(ctx).PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("prepare statement: %w", err)
	}
	defer prepare.Close()

	if err = prepare.GetContext(ctx, dest, args); err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.ErrorWithStack(err)
	}

	return err //nolint:wrapcheck
}

func (repo *Repository[T]) selectAll(ctx context.Context, query string, dest any, args map[string]any) error {
	prepare, err := repo.reader(ctx).PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("prepare statement: %w", err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, dest, args); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("select: %w", err)
	}

	return nil
}

func (repo *Repository[T]) getSelectQuery(columnsParam ...string) string {
	columns := []string{}

	for _, col := range repo.columns {
		tableField := col.table
		name := col.name
		alias := col.alias

		if len(columnsParam) > 0 && !slices.Contains(columnsParam, name) {
			continue
		}

		var column string

		switch {
		case tableField == "":
			column = name
		case alias != "":
			column = fmt.Sprintf("%s.%s AS %s", tableField, name, alias)
		default:
			column = fmt.Sprintf("%s.%s", tableField, name)
		}

		columns = append(columns, column)
	}

	return strings.Join(columns, ", ")
}

func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()

	if where == "" {
		return where, map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)
		dbTag := field.Tag.Get("db")
		tableField := field.Tag.Get("table")
		colTag := field.Tag.Get("column")

		if tableField == "" {
			tableField = table
		}

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			col, insertCol := getColumns(table, field.Type)
			columns = append(columns, col...)
			insertColumns = append(insertColumns, insertCol...)
		}

		if dbTag == "" || dbTag == "-" {
			continue
		}

		if tableField == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if colTag == "" {
			columns = append(columns, column{name: dbTag, table: tableField})
		} else {
			columns = append(columns, column{name: colTag, table: tableField, alias: dbTag})
		}
	}

	return columns, insertColumns
}
