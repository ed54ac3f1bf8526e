package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/warehouse-api/internal/application/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

// Columnas de la plantilla de carga masiva de entradas.
const (
	colProduct    = "codigo_producto"
	colWarehouse  = "codigo_bodega"
	colQuantity   = "cantidad"
	colReference  = "referencia"
	colExpiration = "vencimiento"
	colNote       = "nota"
)

var templateHeader = []interface{}{colProduct, colWarehouse, colQuantity, colReference, colExpiration, colNote}

// aliases encabezados aceptados además de los de la plantilla.
var aliases = map[string]string{
	"product_code":    colProduct,
	"producto":        colProduct,
	"warehouse_code":  colWarehouse,
	"bodega":          colWarehouse,
	"quantity":        colQuantity,
	"external_ref":    colReference,
	"expiration_date": colExpiration,
	"note":            colNote,
}

// ReceiptImporter lee la hoja activa del archivo y produce una fila de entrada por fila con datos.
type ReceiptImporter struct{}

// NewReceiptImporter construye el lector.
func NewReceiptImporter() *ReceiptImporter { return &ReceiptImporter{} }

// Parse valida encabezados y celdas. Las filas vacías se omiten; Line es el número de fila en la hoja.
func (p *ReceiptImporter) Parse(r io.Reader) ([]inventory.ReceiptRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("archivo no es un .xlsx válido: %w", domain.ErrInvalidInput)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("leer hoja: %w", domain.ErrInvalidInput)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("el archivo no tiene filas de datos: %w", domain.ErrInvalidInput)
	}

	idx := map[string]int{}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		if alias, ok := aliases[key]; ok {
			key = alias
		}
		idx[key] = i
	}
	for _, required := range []string{colProduct, colWarehouse, colQuantity} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q: %w", required, domain.ErrInvalidInput)
		}
	}

	get := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []inventory.ReceiptRow
	for i := 1; i < len(rows); i++ {
		line := i + 1
		row := rows[i]
		product, warehouse, qtyStr := get(row, colProduct), get(row, colWarehouse), get(row, colQuantity)
		if product == "" && warehouse == "" && qtyStr == "" {
			continue
		}
		if product == "" || warehouse == "" {
			return nil, fmt.Errorf("fila %d: producto y bodega son obligatorios: %w", line, domain.ErrInvalidInput)
		}
		qty, err := strconv.ParseInt(qtyStr, 10, 64)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("fila %d: cantidad inválida %q: %w", line, qtyStr, domain.ErrInvalidInput)
		}
		rr := inventory.ReceiptRow{
			Line:          line,
			ProductCode:   product,
			WarehouseCode: warehouse,
			Quantity:      qty,
			Note:          get(row, colNote),
		}
		if ref := get(row, colReference); ref != "" {
			rr.ExternalRef = &ref
		}
		if exp := get(row, colExpiration); exp != "" {
			d, err := time.Parse("2006-01-02", exp)
			if err != nil {
				return nil, fmt.Errorf("fila %d: vencimiento debe tener formato AAAA-MM-DD: %w", line, domain.ErrInvalidInput)
			}
			rr.ExpirationDate = &d
		}
		out = append(out, rr)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("el archivo no tiene filas de datos: %w", domain.ErrInvalidInput)
	}
	return out, nil
}

// Template plantilla vacía con los encabezados esperados por Parse.
func (p *ReceiptImporter) Template() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := templateHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir plantilla: %w", err)
	}
	return buf.Bytes(), nil
}
