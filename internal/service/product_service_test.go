package service_test

import (
	"context"
	"strings"
	"testing"

	"tillpos/internal/dto"
	"tillpos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductSvc() (service.ProductService, *stubProductRepo) {
	repo := newStubProductRepo()
	return service.NewProductService(repo, nil), repo
}

func TestProductCreate_DuplicateUPC(t *testing.T) {
	svc, repo := buildProductSvc()
	repo.seed("Tea Box", "200000000001", 4.00, 10)

	upc := "200000000001"
	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		UPC:   &upc,
		Name:  "Another Tea Box",
		Price: dec(4.50),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPC already exists")
}

func TestProductAdjustStock_BlocksNegative(t *testing.T) {
	svc, repo := buildProductSvc()
	p := repo.seed("Salt", "200000000002", 1.00, 3)

	_, err := svc.AdjustStock(context.Background(), p.ID, -5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot go negative")
	assert.Equal(t, 3, repo.products[p.ID].Qty)

	resp, err := svc.AdjustStock(context.Background(), p.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Qty)
}

func TestProductUpdate_PartialFields(t *testing.T) {
	svc, repo := buildProductSvc()
	p := repo.seed("Rice 1kg", "200000000003", 3.00, 15)

	newPrice := dec(3.50)
	resp, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, "Rice 1kg", resp.Name)
	assert.Equal(t, "3.5", resp.Price.String())
	assert.Equal(t, 15, resp.Qty)
}

func TestPriceCheck_ByUPC(t *testing.T) {
	svc, repo := buildProductSvc()
	repo.seed("Pasta 500g", "200000000004", 2.20, 40)

	resp, err := svc.PriceCheck(context.Background(), "200000000004")
	require.NoError(t, err)
	assert.Equal(t, "Pasta 500g", resp.Name)
	assert.Equal(t, "2.2", resp.Price.String())
	assert.Equal(t, 40, resp.Qty)

	_, err = svc.PriceCheck(context.Background(), "999999999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestImportCSV_UpsertsByUPC(t *testing.T) {
	svc, repo := buildProductSvc()
	existing := repo.seed("Old Name", "300000000001", 1.00, 5)

	csv := strings.NewReader(
		"upc,name,price,qty\n" +
			"300000000001,Orange Juice 1L,2.50,10\n" + // update + stock in
			"300000000002,Apple Juice 1L,2.40,6\n" + // create
			",Loose Candy,0.10,100\n" + // create without UPC
			"300000000003,Broken Row,notaprice,1\n") // skipped

	result, err := svc.ImportCSV(context.Background(), csv)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "line 5")

	updated := repo.products[existing.ID]
	assert.Equal(t, "Orange Juice 1L", updated.Name)
	assert.Equal(t, "2.5", updated.Price.String())
	assert.Equal(t, 15, updated.Qty) // 5 + 10 incoming
}

func TestImportCSV_BadHeader(t *testing.T) {
	svc, _ := buildProductSvc()
	_, err := svc.ImportCSV(context.Background(), strings.NewReader("id;nombre;precio\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header")
}
