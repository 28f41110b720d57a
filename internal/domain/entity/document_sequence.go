package entity

// Clases de documento numeradas por el secuenciador.
const (
	DocumentKindInvoice        = "invoice"
	DocumentKindSaleReturn     = "sale_return"
	DocumentKindPurchase       = "purchase"
	DocumentKindPurchaseReturn = "purchase_return"
)

// ValidDocumentKind indica si kind es una clase de documento numerable.
func ValidDocumentKind(kind string) bool {
	switch kind {
	case DocumentKindInvoice, DocumentKindSaleReturn,
		DocumentKindPurchase, DocumentKindPurchaseReturn:
		return true
	}
	return false
}

// DocumentSequence es el contador consecutivo por (sucursal, clase, año).
// Invariante: cada número emitido es estrictamente mayor que el anterior y
// dos callers nunca reciben el mismo (emisión exactamente-una-vez).
// Los números de años cerrados jamás se renumeran.
type DocumentSequence struct {
	BranchID   string
	Kind       string
	Year       int
	LastNumber int64
}
