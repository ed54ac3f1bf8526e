// seed carga el catálogo inicial (productos o bodegas) desde un CSV exportado de hoja de cálculo.
// Acepta UTF-8 o Latin-1 (ISO-8859-1, típico de Excel en español). Los códigos existentes se omiten.
//
// Uso:
//
//	go run ./cmd/seed --kind products --file productos.csv [--sep ';'] [--latin1]
//
// Columnas: codigo, nombre, descripcion[, costo] (costo solo para productos). La primera fila es encabezado.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-api/pkg/config"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

const seedUser = "seed"

type catalogRow struct {
	Line        int
	Code        string
	Name        string
	Description string
	Cost        *decimal.Decimal
}

func main() {
	kind := pflag.String("kind", "products", "catálogo a cargar: products | warehouses")
	file := pflag.String("file", "", "ruta del CSV")
	sep := pflag.String("sep", ";", "separador de columnas")
	latin1 := pflag.Bool("latin1", false, "forzar lectura ISO-8859-1 (por defecto se detecta)")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	if *file == "" || *sep == "" {
		log.Fatal().Msg("--file y --sep son requeridos")
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	rows, err := parseCatalog(bytes.NewReader(raw), []rune(*sep)[0], *latin1 || !utf8.Valid(raw))
	if err != nil {
		log.Fatal().Err(err).Msg("interpretar CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var create func(context.Context, catalogRow) error
	switch *kind {
	case "products":
		uc := usecase.NewProductUseCase(postgres.NewProductRepository(pool))
		create = func(ctx context.Context, r catalogRow) error {
			_, err := uc.Create(ctx, seedUser, dto.CreateProductRequest{Code: r.Code, Name: r.Name, Description: r.Description, UnitCost: r.Cost})
			return err
		}
	case "warehouses":
		uc := usecase.NewWarehouseUseCase(postgres.NewWarehouseRepository(pool))
		create = func(ctx context.Context, r catalogRow) error {
			_, err := uc.Create(ctx, seedUser, dto.CreateWarehouseRequest{Code: r.Code, Name: r.Name, Description: r.Description})
			return err
		}
	default:
		log.Fatal().Str("kind", *kind).Msg("--kind debe ser products o warehouses")
	}

	var created, skipped int
	for _, r := range rows {
		err := create(ctx, r)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrConflict):
			skipped++
		default:
			log.Fatal().Err(err).Int("fila", r.Line).Str("codigo", r.Code).Msg("crear registro")
		}
	}
	log.Info().Str("kind", *kind).Int("creados", created).Int("omitidos", skipped).Msg("carga terminada")
}

// parseCatalog lee el CSV (saltando el encabezado) y valida código y nombre por fila.
func parseCatalog(r io.Reader, sep rune, latin1 bool) ([]catalogRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	out := make([]catalogRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		get := func(idx int) string {
			if idx < len(rec) {
				return strings.TrimSpace(rec[idx])
			}
			return ""
		}
		row := catalogRow{Line: line, Code: get(0), Name: get(1), Description: get(2)}
		if row.Code == "" && row.Name == "" {
			continue
		}
		if row.Code == "" || row.Name == "" {
			return nil, fmt.Errorf("fila %d: codigo y nombre son requeridos", line)
		}
		if c := strings.ReplaceAll(get(3), ",", "."); c != "" {
			cost, err := decimal.NewFromString(c)
			if err != nil {
				return nil, fmt.Errorf("fila %d: costo inválido %q", line, get(3))
			}
			row.Cost = &cost
		}
		out = append(out, row)
	}
	return out, nil
}
