package domain

// ProductRepository defines the catalog operations of the entity store
type ProductRepository interface {
	ListProducts() []Product
	FindProduct(id int64) (Product, error)
	AddProduct(n NewProduct) (int64, error)
	UpdateProduct(id int64, patch ProductPatch) error
	DeleteProduct(id int64) error
	RestockProduct(id int64, quantity int) error
}
