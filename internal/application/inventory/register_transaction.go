package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// RegisterTransactionUseCase registra entradas, salidas y despachos de kit en el libro de movimientos.
// Cada operación corre en una transacción de BD con bloqueo por par producto/bodega; si la
// verificación de stock falla se hace Rollback y no queda ninguna fila escrita.
type RegisterTransactionUseCase struct {
	txRunner      TxRunner
	txRepo        repository.TransactionRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	kitRepo       repository.KitRepository
	observer      MovementObserver
}

// NewRegisterTransactionUseCase construye el caso de uso. observer puede ser nil.
func NewRegisterTransactionUseCase(
	txRunner TxRunner,
	txRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	kitRepo repository.KitRepository,
	observer MovementObserver,
) *RegisterTransactionUseCase {
	if observer == nil {
		observer = NopObserver{}
	}
	return &RegisterTransactionUseCase{
		txRunner:      txRunner,
		txRepo:        txRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		kitRepo:       kitRepo,
		observer:      observer,
	}
}

// MovementInput entrada para registrar una entrada o una salida de un producto.
type MovementInput struct {
	UserID         string
	ProductID      string
	WarehouseID    string
	Quantity       int64
	ExternalRef    *string
	ExpirationDate *time.Time
	Note           string
	// KitID/KitQuantity etiquetan una salida como parte del despacho de un kit.
	KitID          *string
	KitQuantity    *int64
}

// KitIssueInput entrada para despachar kitQuantity unidades de un kit desde una bodega.
type KitIssueInput struct {
	UserID      string
	KitID       string
	WarehouseID string
	KitQuantity int64
	ExternalRef *string
	Note        string
}

// ReceiptRow fila de la carga masiva de entradas; producto y bodega se identifican por código.
type ReceiptRow struct {
	Line           int
	ProductCode    string
	WarehouseCode  string
	Quantity       int64
	ExternalRef    *string
	ExpirationDate *time.Time
	Note           string
}

// Receive agrega una entrada (IN). Quantity debe ser > 0.
func (uc *RegisterTransactionUseCase) Receive(ctx context.Context, input MovementInput) (*entity.Transaction, error) {
	if err := uc.validateMovement(ctx, input); err != nil {
		return nil, err
	}
	if input.KitID != nil || input.KitQuantity != nil {
		return nil, domain.ErrInvalidInput
	}
	t := newTransaction(uuid.New().String(), input, entity.DirectionIn, time.Now())
	err := uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, _ repository.KitRepository) error {
		if err := txRepo.LockStock(ctx, input.ProductID, ""); err != nil {
			return err
		}
		if err := receiptFits(ctx, txRepo, input.ProductID, input.Quantity); err != nil {
			return err
		}
		return txRepo.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.observer.MovementRecorded(t.Direction, t.Quantity)
	return t, nil
}

// Issue agrega una salida (OUT): bloquea el par, agrega el stock y rechaza si no alcanza.
func (uc *RegisterTransactionUseCase) Issue(ctx context.Context, input MovementInput) (*entity.Transaction, error) {
	if err := uc.validateMovement(ctx, input); err != nil {
		return nil, err
	}
	if input.ExpirationDate != nil {
		return nil, domain.ErrInvalidInput
	}
	if (input.KitID == nil) != (input.KitQuantity == nil) {
		return nil, domain.ErrInvalidInput
	}
	if input.KitQuantity != nil && *input.KitQuantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	t := newTransaction(uuid.New().String(), input, entity.DirectionOut, time.Now())
	err := uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, kitRepo repository.KitRepository) error {
		if input.KitID != nil {
			if err := ensureKitComponent(ctx, kitRepo, *input.KitID, input.ProductID); err != nil {
				return err
			}
		}
		if err := txRepo.LockStock(ctx, input.ProductID, input.WarehouseID); err != nil {
			return err
		}
		totals, err := txRepo.Totals(ctx, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		if onHand := totals.OnHand(); onHand < input.Quantity {
			return domain.NewInsufficientStock(onHand)
		}
		return txRepo.Create(ctx, t)
	})
	if err != nil {
		uc.rejected("issue", err, input.ProductID, input.WarehouseID)
		return nil, err
	}
	uc.observer.MovementRecorded(t.Direction, t.Quantity)
	return t, nil
}

// IssueKit despacha kitQuantity kits: una salida por componente (unidades * kitQuantity), todas con
// el mismo lote. Si el stock no alcanza, el error lleva los kits despachables como disponible.
func (uc *RegisterTransactionUseCase) IssueKit(ctx context.Context, input KitIssueInput) ([]*entity.Transaction, error) {
	if input.KitID == "" || input.WarehouseID == "" || input.KitQuantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	kit, err := uc.kitRepo.GetByID(ctx, input.KitID)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	batchID := uuid.New().String()
	var created []*entity.Transaction
	err = uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, kitRepo repository.KitRepository) error {
		// El kit pudo borrarse entre la validación y el inicio de la transacción
		current, err := kitRepo.GetByID(ctx, input.KitID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		components, err := kitRepo.ListComponents(ctx, input.KitID)
		if err != nil {
			return err
		}
		lines := inventory.LinesFromComponents(components)
		if len(lines) == 0 {
			return domain.NewInsufficientStock(0)
		}
		// Orden fijo de bloqueo: dos despachos concurrentes nunca se esperan en ciclo
		for _, productID := range inventory.SortedProductIDs(lines) {
			if err := txRepo.LockStock(ctx, productID, input.WarehouseID); err != nil {
				return err
			}
		}
		issuable, err := issuableIn(ctx, txRepo, lines, input.WarehouseID)
		if err != nil {
			return err
		}
		if issuable < input.KitQuantity {
			return domain.NewInsufficientStock(issuable)
		}
		kitQty := input.KitQuantity
		for _, l := range inventory.ExplodeKit(lines, input.KitQuantity) {
			t := newTransaction(batchID, MovementInput{
				UserID:      input.UserID,
				ProductID:   l.ProductID,
				WarehouseID: input.WarehouseID,
				Quantity:    l.UnitsPerKit,
				ExternalRef: input.ExternalRef,
				Note:        input.Note,
				KitID:       &input.KitID,
				KitQuantity: &kitQty,
			}, entity.DirectionOut, now)
			if err := txRepo.Create(ctx, t); err != nil {
				return err
			}
			created = append(created, t)
		}
		return nil
	})
	if err != nil {
		uc.rejected("issue_kit", err, input.KitID, input.WarehouseID)
		return nil, err
	}
	for _, t := range created {
		uc.observer.MovementRecorded(t.Direction, t.Quantity)
	}
	log.Info().Str("kit_id", input.KitID).Str("warehouse_id", input.WarehouseID).
		Int64("kit_quantity", input.KitQuantity).Str("batch_id", batchID).Msg("kit despachado")
	return created, nil
}

// Register despacha POST /transactions según la dirección (0 entrada, 1 salida).
// kitId/kitQuantity solo se aceptan juntos, en una salida de un producto que compone el kit.
func (uc *RegisterTransactionUseCase) Register(ctx context.Context, userID string, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if in.Direction == nil || !entity.ValidDirection(*in.Direction) {
		return nil, domain.ErrInvalidInput
	}
	input := MovementInput{
		UserID:         userID,
		ProductID:      in.ProductID,
		WarehouseID:    in.WarehouseID,
		Quantity:       in.Quantity,
		ExternalRef:    in.ExternalRef,
		ExpirationDate: in.ExpirationDate,
		Note:           in.Note,
		KitID:          in.KitID,
		KitQuantity:    in.KitQuantity,
	}
	var (
		t   *entity.Transaction
		err error
	)
	if *in.Direction == entity.DirectionIn {
		t, err = uc.Receive(ctx, input)
	} else {
		t, err = uc.Issue(ctx, input)
	}
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, t.ID)
}

// IssueKitFromRequest adapta el request HTTP a IssueKit y devuelve las filas creadas con nombres.
func (uc *RegisterTransactionUseCase) IssueKitFromRequest(ctx context.Context, userID string, in dto.IssueKitRequest) (*dto.IssueKitResponse, error) {
	created, err := uc.IssueKit(ctx, KitIssueInput{
		UserID:      userID,
		KitID:       in.KitID,
		WarehouseID: in.WarehouseID,
		KitQuantity: in.KitQuantity,
		ExternalRef: in.ExternalRef,
		Note:        in.Note,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.IssueKitResponse{
		KitID:        in.KitID,
		WarehouseID:  in.WarehouseID,
		KitQuantity:  in.KitQuantity,
		Transactions: make([]dto.TransactionResponse, 0, len(created)),
	}
	for _, t := range created {
		out.BatchID = t.BatchID
		view, err := uc.txRepo.GetView(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		if view == nil {
			view = &entity.TransactionView{Transaction: *t}
		}
		out.Transactions = append(out.Transactions, toTransactionResponse(view))
	}
	return out, nil
}

// ImportReceipts registra una entrada por fila en una sola transacción; cualquier fila inválida
// cancela la carga completa.
func (uc *RegisterTransactionUseCase) ImportReceipts(ctx context.Context, userID string, rows []ReceiptRow) (*dto.ImportReceiptsResponse, error) {
	if len(rows) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	batchID := uuid.New().String()
	pending := make([]*entity.Transaction, 0, len(rows))
	productIDs := map[string]string{}
	warehouseIDs := map[string]string{}
	for _, row := range rows {
		if row.Quantity <= 0 {
			return nil, fmt.Errorf("fila %d: cantidad debe ser mayor a cero: %w", row.Line, domain.ErrInvalidInput)
		}
		productID, err := uc.productIDByCode(ctx, productIDs, row.ProductCode)
		if err != nil {
			return nil, fmt.Errorf("fila %d: producto %q: %w", row.Line, row.ProductCode, err)
		}
		warehouseID, err := uc.warehouseIDByCode(ctx, warehouseIDs, row.WarehouseCode)
		if err != nil {
			return nil, fmt.Errorf("fila %d: bodega %q: %w", row.Line, row.WarehouseCode, err)
		}
		pending = append(pending, newTransaction(batchID, MovementInput{
			UserID:         userID,
			ProductID:      productID,
			WarehouseID:    warehouseID,
			Quantity:       row.Quantity,
			ExternalRef:    row.ExternalRef,
			ExpirationDate: row.ExpirationDate,
			Note:           row.Note,
		}, entity.DirectionIn, now))
	}
	err := uc.txRunner.Run(ctx, func(txRepo repository.TransactionRepository, _ repository.KitRepository) error {
		ids := make([]string, 0, len(productIDs))
		for _, id := range productIDs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if err := txRepo.LockStock(ctx, id, ""); err != nil {
				return err
			}
		}
		for _, t := range pending {
			if err := receiptFits(ctx, txRepo, t.ProductID, t.Quantity); err != nil {
				return err
			}
			if err := txRepo.Create(ctx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, t := range pending {
		uc.observer.MovementRecorded(t.Direction, t.Quantity)
	}
	log.Info().Str("batch_id", batchID).Int("rows", len(pending)).Msg("carga masiva de entradas registrada")
	return &dto.ImportReceiptsResponse{BatchID: batchID, Count: len(pending)}, nil
}

// Get obtiene un movimiento con nombres de producto, bodega y kit.
func (uc *RegisterTransactionUseCase) Get(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	view, err := uc.txRepo.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	out := toTransactionResponse(view)
	return &out, nil
}

// List lista movimientos, más recientes primero.
func (uc *RegisterTransactionUseCase) List(ctx context.Context, filter repository.TransactionFilter, page dto.PageRequest) (*dto.TransactionListResponse, error) {
	page.Normalize()
	if filter.Direction != nil && !entity.ValidDirection(*filter.Direction) {
		return nil, domain.ErrInvalidInput
	}
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Offset = page.Skip
	filter.Limit = page.Limit
	views, err := uc.txRepo.ListViews(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toTransactionResponse(v))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Skip: page.Skip, Limit: page.Limit, Count: len(items)},
	}, nil
}

// UpdateNote única corrección permitida: la nota, con su auditoría de modificación.
func (uc *RegisterTransactionUseCase) UpdateNote(ctx context.Context, userID, id string, in dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	if in.Note == nil {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := uc.txRepo.UpdateNote(ctx, id, *in.Note, userID, time.Now()); err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

func (uc *RegisterTransactionUseCase) validateMovement(ctx context.Context, input MovementInput) error {
	if input.ProductID == "" || input.WarehouseID == "" || input.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return ensureRefs(ctx, uc.productRepo, uc.warehouseRepo, input.ProductID, input.WarehouseID)
}

// receiptFits rechaza una entrada si el total recibido del producto (todas las bodegas) desborda int64.
// Requiere el bloqueo del producto tomado.
func receiptFits(ctx context.Context, txRepo repository.TransactionRepository, productID string, quantity int64) error {
	totals, err := txRepo.Totals(ctx, productID, "")
	if err != nil {
		return err
	}
	if !inventory.ReceiptFits(totals.Received, quantity) {
		return fmt.Errorf("entrada excede las existencias máximas del producto: %w", domain.ErrInvalidInput)
	}
	return nil
}

// ensureKitComponent exige que el kit exista y que el producto sea parte de su composición.
func ensureKitComponent(ctx context.Context, kitRepo repository.KitRepository, kitID, productID string) error {
	kit, err := kitRepo.GetByID(ctx, kitID)
	if err != nil {
		return err
	}
	if kit == nil {
		return domain.ErrNotFound
	}
	comp, err := kitRepo.GetComponentByProduct(ctx, kitID, productID)
	if err != nil {
		return err
	}
	if comp == nil {
		return fmt.Errorf("el producto no compone el kit: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (uc *RegisterTransactionUseCase) rejected(op string, err error, ref, warehouseID string) {
	available, ok := domain.AvailableFrom(err)
	if !ok {
		return
	}
	uc.observer.StockRejected(op)
	log.Warn().Str("op", op).Str("ref", ref).Str("warehouse_id", warehouseID).
		Int64("available", available).Msg("stock insuficiente")
}

func (uc *RegisterTransactionUseCase) productIDByCode(ctx context.Context, cache map[string]string, code string) (string, error) {
	code = strings.TrimSpace(code)
	if id, ok := cache[code]; ok {
		return id, nil
	}
	p, err := uc.productRepo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", domain.ErrNotFound
	}
	cache[code] = p.ID
	return p.ID, nil
}

func (uc *RegisterTransactionUseCase) warehouseIDByCode(ctx context.Context, cache map[string]string, code string) (string, error) {
	code = strings.TrimSpace(code)
	if id, ok := cache[code]; ok {
		return id, nil
	}
	w, err := uc.warehouseRepo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if w == nil {
		return "", domain.ErrNotFound
	}
	cache[code] = w.ID
	return w.ID, nil
}

func newTransaction(batchID string, input MovementInput, direction int, now time.Time) *entity.Transaction {
	return &entity.Transaction{
		ID:             uuid.New().String(),
		BatchID:        batchID,
		ProductID:      input.ProductID,
		WarehouseID:    input.WarehouseID,
		Direction:      direction,
		Quantity:       input.Quantity,
		ExternalRef:    input.ExternalRef,
		ExpirationDate: input.ExpirationDate,
		Note:           input.Note,
		KitID:          input.KitID,
		KitQuantity:    input.KitQuantity,
		Audit:          entity.NewAudit(input.UserID, now),
	}
}

func toTransactionResponse(v *entity.TransactionView) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:             v.ID,
		BatchID:        v.BatchID,
		ProductID:      v.ProductID,
		WarehouseID:    v.WarehouseID,
		Direction:      v.Direction,
		Quantity:       v.Quantity,
		KitID:          v.KitID,
		KitQuantity:    v.KitQuantity,
		ExternalRef:    v.ExternalRef,
		ExpirationDate: v.ExpirationDate,
		Note:           v.Note,
		ProductName:    v.ProductName,
		WarehouseName:  v.WarehouseName,
		KitName:        v.KitName,
		AuditResponse: dto.AuditResponse{
			CreatedBy: v.CreatedBy,
			CreatedAt: v.CreatedAt,
			UpdatedBy: v.UpdatedBy,
			UpdatedAt: v.UpdatedAt,
		},
	}
}
