package dto

type ReceiptResponse struct {
	ID        uint    `json:"id"`
	SaleID    uint    `json:"sale_id"`
	Status    string  `json:"status"`
	PDFPath   *string `json:"pdf_path,omitempty"`
	LastError *string `json:"last_error,omitempty"`
	CreatedAt string  `json:"created_at"`
}
