package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ad-report-engine/infrastructure/database/postgres"
	"github.com/vfg2006/ad-report-engine/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	datasetsTable   = "datasets d"
	datasetsColumns = "d.id, d.platform, d.label, d.source, d.file_name, d.date_range, d.rows, d.created_at, d.updated_at"
)

// DatasetRepository persiste datasets normalizados já ingeridos. Resultados
// de agregação nunca são persistidos, só os dados de entrada
type DatasetRepository interface {
	Save(dataset *domain.NormalizedDataset) error
	GetByID(id string) (*domain.NormalizedDataset, error)
	List() ([]domain.NormalizedDataset, error)
	ListByPlatform(platform domain.Platform) ([]domain.NormalizedDataset, error)
	ExistsByFileName(fileName string) (bool, error)
	Delete(id string) error
}

type datasetRepository struct {
	conn *postgres.Connection
}

func NewDatasetRepository(conn *postgres.Connection) DatasetRepository {
	return &datasetRepository{
		conn: conn,
	}
}

func (r *datasetRepository) Save(dataset *domain.NormalizedDataset) error {
	rowsJSON, err := json.Marshal(dataset.Rows)
	if err != nil {
		return fmt.Errorf("erro ao serializar as linhas do dataset: %w", err)
	}

	var rangeJSON []byte
	if dataset.Meta.DateRange != nil {
		rangeJSON, err = json.Marshal(dataset.Meta.DateRange)
		if err != nil {
			return fmt.Errorf("erro ao serializar o período do dataset: %w", err)
		}
	}

	query, args, err := squirrel.
		Insert("datasets").
		Columns("id", "platform", "label", "source", "file_name", "date_range", "rows", "created_at", "updated_at").
		Values(
			dataset.Meta.ID,
			string(dataset.Meta.Platform),
			dataset.Meta.Label,
			string(dataset.Meta.Source),
			dataset.Meta.FileName,
			nullableJSON(rangeJSON),
			rowsJSON,
			time.Now(),
			time.Now(),
		).
		Suffix("ON CONFLICT (id) DO UPDATE SET label = EXCLUDED.label, date_range = EXCLUDED.date_range, rows = EXCLUDED.rows, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao salvar dataset: %w", err)
	}

	return nil
}

func (r *datasetRepository) GetByID(id string) (*domain.NormalizedDataset, error) {
	query, args, err := squirrel.
		Select(datasetsColumns).
		From(datasetsTable).
		Where(squirrel.Eq{"d.id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	dataset, err := r.scanDataset(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear dataset: %w", err)
	}

	return dataset, nil
}

func (r *datasetRepository) List() ([]domain.NormalizedDataset, error) {
	return r.list(squirrel.
		Select(datasetsColumns).
		From(datasetsTable).
		OrderBy("d.created_at ASC"))
}

func (r *datasetRepository) ListByPlatform(platform domain.Platform) ([]domain.NormalizedDataset, error) {
	return r.list(squirrel.
		Select(datasetsColumns).
		From(datasetsTable).
		Where(squirrel.Eq{"d.platform": string(platform)}).
		OrderBy("d.created_at ASC"))
}

func (r *datasetRepository) list(builder squirrel.SelectBuilder) ([]domain.NormalizedDataset, error) {
	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar datasets: %w", err)
	}
	defer rows.Close()

	var datasets []domain.NormalizedDataset
	for rows.Next() {
		dataset, err := r.scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear dataset: %w", err)
		}
		datasets = append(datasets, *dataset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao percorrer datasets: %w", err)
	}

	return datasets, nil
}

func (r *datasetRepository) ExistsByFileName(fileName string) (bool, error) {
	query, args, err := squirrel.
		Select("COUNT(1)").
		From(datasetsTable).
		Where(squirrel.Eq{"d.file_name": fileName}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("erro ao verificar dataset por arquivo: %w", err)
	}

	return count > 0, nil
}

func (r *datasetRepository) Delete(id string) error {
	query, args, err := squirrel.
		Delete("datasets").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao remover dataset: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *datasetRepository) scanDataset(scanner rowScanner) (*domain.NormalizedDataset, error) {
	var (
		dataset   domain.NormalizedDataset
		platform  string
		source    string
		fileName  sql.NullString
		rangeJSON []byte
		rowsJSON  []byte
		createdAt time.Time
		updatedAt time.Time
	)

	err := scanner.Scan(
		&dataset.Meta.ID,
		&platform,
		&dataset.Meta.Label,
		&source,
		&fileName,
		&rangeJSON,
		&rowsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	dataset.Meta.Platform = domain.Platform(platform)
	dataset.Meta.Source = domain.DatasetSource(source)
	dataset.Meta.FileName = fileName.String

	if len(rangeJSON) > 0 {
		dateRange := &domain.DateRangeMeta{}
		if err := json.Unmarshal(rangeJSON, dateRange); err != nil {
			return nil, fmt.Errorf("erro ao desserializar o período do dataset: %w", err)
		}
		dataset.Meta.DateRange = dateRange
	}

	if err := json.Unmarshal(rowsJSON, &dataset.Rows); err != nil {
		return nil, fmt.Errorf("erro ao desserializar as linhas do dataset: %w", err)
	}

	return &dataset, nil
}

func nullableJSON(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return data
}
