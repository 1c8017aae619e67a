// Package bigquery is the BigQuery-backed store implementation. It uses a
// shared client per repository to avoid opening a connection per operation.
package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/dvloznov/finance-ai/internal/domain"
	"github.com/dvloznov/finance-ai/internal/store"
)

const (
	transactionsTable = "transactions"
	budgetsTable      = "budgets"
)

// Repository implements store.Store against BigQuery.
type Repository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewRepository creates a Repository with a shared BigQuery client.
func NewRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// InsertTransactions inserts a batch of transactions via the streaming
// inserter. Each row gets a fresh transaction id.
func (r *Repository) InsertTransactions(ctx context.Context, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	rows := make([]*TransactionRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, rowFromTransaction(uuid.New().String(), tx))
	}

	table := r.client.DatasetInProject(r.projectID, r.datasetID).Table(transactionsTable)
	if err := table.Inserter().Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}

	return nil
}

// ListTransactions queries transactions matching filter, ordered by
// transaction date ascending.
func (r *Repository) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]domain.Transaction, error) {
	var (
		conditions []string
		params     []bigquery.QueryParameter
	)
	if filter.Category != "" {
		conditions = append(conditions, "category = @category")
		params = append(params, bigquery.QueryParameter{Name: "category", Value: filter.Category})
	}
	if filter.Source != "" {
		conditions = append(conditions, "source = @source")
		params = append(params, bigquery.QueryParameter{Name: "source", Value: filter.Source})
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "transaction_date >= @start_date")
		params = append(params, bigquery.QueryParameter{Name: "start_date", Value: filter.From.Format("2006-01-02")})
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "transaction_date <= @end_date")
		params = append(params, bigquery.QueryParameter{Name: "end_date", Value: filter.To.Format("2006-01-02")})
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}
	limit := ""
	if filter.Limit > 0 {
		limit = fmt.Sprintf("LIMIT %d", filter.Limit)
	}

	query := fmt.Sprintf(`
		SELECT
			transaction_id,
			transaction_date,
			description,
			amount,
			category,
			is_income,
			source,
			created_ts
		FROM `+"`%s.%s.%s`"+`
		%s
		ORDER BY transaction_date, created_ts
		%s
	`, r.projectID, r.datasetID, transactionsTable, where, limit)

	q := r.client.Query(query)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: reading query: %w", err)
	}

	var txs []domain.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iterating: %w", err)
		}
		txs = append(txs, row.toTransaction())
	}

	return txs, nil
}

// UpsertBudget replaces the budget row for its category and month using a
// MERGE statement.
func (r *Repository) UpsertBudget(ctx context.Context, b domain.Budget) error {
	query := fmt.Sprintf(`
		MERGE `+"`%s.%s.%s`"+` target
		USING (SELECT @category AS category, @monthly_limit AS monthly_limit, @month AS month) source
		ON target.category = source.category AND target.month = source.month
		WHEN MATCHED THEN
			UPDATE SET monthly_limit = source.monthly_limit, updated_ts = CURRENT_TIMESTAMP()
		WHEN NOT MATCHED THEN
			INSERT (category, monthly_limit, month, updated_ts)
			VALUES (source.category, source.monthly_limit, source.month, CURRENT_TIMESTAMP())
	`, r.projectID, r.datasetID, budgetsTable)

	q := r.client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "category", Value: b.Category},
		{Name: "monthly_limit", Value: b.MonthlyLimit.Rat()},
		{Name: "month", Value: b.Month},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("UpsertBudget: running merge: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("UpsertBudget: waiting for merge: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("UpsertBudget: merge failed: %w", err)
	}

	return nil
}

// ListBudgets retrieves all budgets for the given month.
func (r *Repository) ListBudgets(ctx context.Context, month string) ([]domain.Budget, error) {
	query := fmt.Sprintf(`
		SELECT
			category,
			monthly_limit,
			month,
			updated_ts
		FROM `+"`%s.%s.%s`"+`
		WHERE month = @month
		ORDER BY category
	`, r.projectID, r.datasetID, budgetsTable)

	q := r.client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "month", Value: month},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListBudgets: reading query: %w", err)
	}

	var budgets []domain.Budget
	for {
		var row BudgetRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListBudgets: iterating: %w", err)
		}
		budgets = append(budgets, row.toBudget())
	}

	return budgets, nil
}

var _ store.Store = (*Repository)(nil)
