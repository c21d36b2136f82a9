package catalog

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"centremart/models"
	"centremart/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(context.Context, upload.Image) (string, error) {
	f.calls++
	return f.url, f.err
}

type fakeInserter struct {
	inserted []models.Product
	failAt   int
}

func (f *fakeInserter) Insert(_ context.Context, p *models.Product) error {
	if f.failAt > 0 && len(f.inserted)+1 == f.failAt {
		return errors.New("write failed")
	}
	p.ID = primitive.NewObjectID()
	f.inserted = append(f.inserted, *p)
	return nil
}

var img = upload.Image{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}

func TestCreate(t *testing.T) {
	up := &fakeUploader{url: "https://img.example.com/a.jpg"}
	ins := &fakeInserter{}
	c := New(up, ins, zap.NewNop())

	p, err := c.Create(context.Background(), ProductInput{Name: " Tea ", Price: "120.50", Category: "Groceries"}, img)
	require.NoError(t, err)
	assert.Equal(t, "Tea", p.Name)
	assert.InDelta(t, 120.5, p.Price, 1e-9)
	assert.Equal(t, "https://img.example.com/a.jpg", p.ImageURL)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Len(t, ins.inserted, 1)
}

func TestCreate_RejectsBeforeUpload(t *testing.T) {
	tests := map[string]struct {
		in  ProductInput
		img upload.Image
	}{
		"no name":      {ProductInput{Price: "1", Category: "Books"}, img},
		"bad price":    {ProductInput{Name: "x", Price: "free", Category: "Books"}, img},
		"zero price":   {ProductInput{Name: "x", Price: "0", Category: "Books"}, img},
		"bad category": {ProductInput{Name: "x", Price: "1", Category: "Cars"}, img},
		"no image":     {ProductInput{Name: "x", Price: "1", Category: "Books"}, upload.Image{}},
		"not an image": {ProductInput{Name: "x", Price: "1", Category: "Books"}, upload.Image{ContentType: "text/plain", Data: []byte("x")}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			up := &fakeUploader{}
			ins := &fakeInserter{}
			_, err := New(up, ins, zap.NewNop()).Create(context.Background(), tt.in, tt.img)
			assert.ErrorIs(t, err, ErrInvalidProduct)
			assert.Zero(t, up.calls)
			assert.Empty(t, ins.inserted)
		})
	}
}

func TestCreate_UploadFailureWritesNothing(t *testing.T) {
	up := &fakeUploader{err: upload.ErrUploadFailed}
	ins := &fakeInserter{}
	_, err := New(up, ins, zap.NewNop()).Create(context.Background(), ProductInput{Name: "x", Price: "1", Category: "Books"}, img)
	assert.ErrorIs(t, err, upload.ErrUploadFailed)
	assert.Empty(t, ins.inserted)
}

func TestParseBulkText(t *testing.T) {
	text := `
Basmati Rice | 250 | 5kg bag | Groceries | https://img.example.com/rice.jpg
Football | abc | size 5 | Toys
too | short
Vitamin C | 90.5 | tablets | Medicines
`
	products := ParseBulkText(text)
	require.Len(t, products, 3)

	assert.Equal(t, "Basmati Rice", products[0].Name)
	assert.Equal(t, "https://img.example.com/rice.jpg", products[0].ImageURL)

	assert.Equal(t, 0.0, products[1].Price)
	assert.Equal(t, models.FallbackCategory, products[1].Category)
	assert.Equal(t, models.PlaceholderImageURL, products[1].ImageURL)

	assert.InDelta(t, 90.5, products[2].Price, 1e-9)
	assert.Equal(t, "Medicines", products[2].Category)
}

func TestParseBulkSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Name", "Price", "Description", "Category", "Image"},
		{"Cricket Bat", 1500, "willow", "Sports"},
		{"Storybook", "300", "bedtime", "Books", "https://img.example.com/book.jpg"},
		{"Broken"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	products, err := ParseBulkSheet(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Cricket Bat", products[0].Name)
	assert.InDelta(t, 1500, products[0].Price, 1e-9)
	assert.Equal(t, models.PlaceholderImageURL, products[0].ImageURL)
	assert.Equal(t, "https://img.example.com/book.jpg", products[1].ImageURL)
}

func TestParseBulkSheet_NotAWorkbook(t *testing.T) {
	_, err := ParseBulkSheet(bytes.NewReader([]byte("plain text")))
	assert.Error(t, err)
}

func TestImport_StopsAtFirstFailure(t *testing.T) {
	ins := &fakeInserter{failAt: 2}
	c := New(&fakeUploader{}, ins, zap.NewNop())

	n, err := c.Import(context.Background(), ParseBulkText("a|1|x|Books\nb|2|y|Books\nc|3|z|Books"))
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, ins.inserted, 1)
}
