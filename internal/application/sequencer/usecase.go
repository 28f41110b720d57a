package sequencer

import (
	"context"
	"fmt"

	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// Prefijo del número por clase de documento.
var kindPrefixes = map[string]string{
	entity.DocumentKindInvoice:        "INV",
	entity.DocumentKindSaleReturn:     "DEV",
	entity.DocumentKindPurchase:       "COM",
	entity.DocumentKindPurchaseReturn: "DCO",
}

// TxRunner ejecuta fn dentro de una transacción con el repositorio de
// secuencias atado a esa tx. Emitir dentro de la misma tx que persiste el
// documento evita huecos: si la operación aborta, el número no se consume.
type TxRunner interface {
	RunSequence(ctx context.Context, fn func(seqRepo repository.SequenceRepository) error) error
}

// DocumentSequencer emite números de documento consecutivos, sin huecos y sin
// colisiones por (sucursal, clase, año). El incremento-y-lectura es un único
// paso atómico del repositorio; nunca se cuenta filas existentes.
type DocumentSequencer struct {
	txRunner TxRunner
}

// NewDocumentSequencer construye el secuenciador.
func NewDocumentSequencer(txRunner TxRunner) *DocumentSequencer {
	return &DocumentSequencer{txRunner: txRunner}
}

// NextNumber emite el siguiente número del scope en su propia transacción.
// El cambio de año arranca una secuencia fresca por scope.
func (s *DocumentSequencer) NextNumber(ctx context.Context, branchID, kind string, year int) (string, error) {
	if err := validateScope(branchID, kind, year); err != nil {
		return "", err
	}
	var number string
	err := s.txRunner.RunSequence(ctx, func(seqRepo repository.SequenceRepository) error {
		var err error
		number, err = s.NextNumberInTx(ctx, seqRepo, branchID, kind, year)
		return err
	})
	if err != nil {
		return "", err
	}
	return number, nil
}

// NextNumberInTx emite usando el repositorio del caller (misma transacción).
// Lo usan operaciones de negocio que numeran el documento que están creando.
func (s *DocumentSequencer) NextNumberInTx(ctx context.Context, seqRepo repository.SequenceRepository, branchID, kind string, year int) (string, error) {
	if err := validateScope(branchID, kind, year); err != nil {
		return "", err
	}
	n, err := seqRepo.NextValue(ctx, branchID, kind, year)
	if err != nil {
		return "", err
	}
	return Format(kind, branchID, year, n), nil
}

// Format arma el número legible: <PREFIJO>-<sucursal>-<año>-<consecutivo 4 dígitos>.
// Ej: INV-PWD-1-2025-0001. Con más de 9999 documentos el consecutivo crece
// de ancho sin reiniciarse.
func Format(kind, branchID string, year int, n int64) string {
	return fmt.Sprintf("%s-%s-%d-%04d", kindPrefixes[kind], branchID, year, n)
}

func validateScope(branchID, kind string, year int) error {
	if branchID == "" || !entity.ValidDocumentKind(kind) || year < 2000 {
		return domain.ErrInvalidInput
	}
	return nil
}
