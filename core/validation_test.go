package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateCategorization(t *testing.T) {
	tests := []struct {
		name    string
		c       *Categorization
		wantErr error
	}{
		{
			name: "valid leaf",
			c: &Categorization{
				Category:    "Dairy & Eggs",
				Subcategory: "Milk",
				ProductType: "Whole Milk",
			},
			wantErr: nil,
		},
		{
			name:    "sentinel is structurally valid",
			c:       &Categorization{Category: UncategorizedCategory, Subcategory: UnknownSubcategory, ProductType: UnknownProductType},
			wantErr: nil,
		},
		{
			name: "valid leaf with secondary",
			c: &Categorization{
				Category:    "Dairy & Eggs",
				Subcategory: "Milk",
				ProductType: "Whole Milk",
				Secondary: []Categorization{
					{Category: "Beverages", Subcategory: "Milk", ProductType: "Whole Milk"},
				},
			},
			wantErr: nil,
		},
		{
			name:    "nil categorization",
			c:       nil,
			wantErr: ErrInvalidCategorization,
		},
		{
			name: "empty category",
			c: &Categorization{
				Subcategory: "Milk",
				ProductType: "Whole Milk",
			},
			wantErr: ErrEmptyField,
		},
		{
			name: "empty subcategory",
			c: &Categorization{
				Category:    "Dairy & Eggs",
				ProductType: "Whole Milk",
			},
			wantErr: ErrEmptyField,
		},
		{
			name: "empty product type",
			c: &Categorization{
				Category:    "Dairy & Eggs",
				Subcategory: "Milk",
			},
			wantErr: ErrEmptyField,
		},
		{
			name: "incomplete secondary",
			c: &Categorization{
				Category:    "Dairy & Eggs",
				Subcategory: "Milk",
				ProductType: "Whole Milk",
				Secondary: []Categorization{
					{Category: "Beverages", Subcategory: "Milk"},
				},
			},
			wantErr: ErrEmptyField,
		},
		{
			name: "nested secondary",
			c: &Categorization{
				Category:    "Dairy & Eggs",
				Subcategory: "Milk",
				ProductType: "Whole Milk",
				Secondary: []Categorization{
					{
						Category:    "Beverages",
						Subcategory: "Milk",
						ProductType: "Whole Milk",
						Secondary: []Categorization{
							{Category: "Deli", Subcategory: "Cheese", ProductType: "Cheddar"},
						},
					},
				},
			},
			wantErr: ErrInvalidCategorization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategorization(tt.c)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCategorization() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateCategorization() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCategorization() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name    string
		product *Product
		wantErr error
	}{
		{
			name: "valid product",
			product: &Product{
				Description: "Horizon Organic Whole Milk",
			},
			wantErr: nil,
		},
		{
			name: "valid product with all context",
			product: &Product{
				Description:          "Horizon Organic Whole Milk",
				ProductID:            "0001111041700",
				CategoryHints:        []string{"Dairy"},
				Brand:                "Horizon",
				CountryOrigin:        "United States",
				TemperatureIndicator: "Refrigerated",
			},
			wantErr: nil,
		},
		{
			name:    "nil product",
			product: nil,
			wantErr: ErrInvalidProduct,
		},
		{
			name:    "empty description",
			product: &Product{ProductID: "0001111041700"},
			wantErr: ErrEmptyDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProduct(tt.product)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateProduct() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateProduct() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateProduct() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNegativeExample(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		example *NegativeExample
		wantErr error
	}{
		{
			name: "valid example",
			example: &NegativeExample{
				Text:        "acme salsa",
				Category:    "Snacks & Candy",
				Subcategory: "Dips",
				ProductType: "Salsa",
				Timestamp:   validTime,
			},
			wantErr: nil,
		},
		{
			name:    "nil example",
			example: nil,
			wantErr: ErrInvalidNegativeExample,
		},
		{
			name: "empty text",
			example: &NegativeExample{
				Category:    "Snacks & Candy",
				Subcategory: "Dips",
				ProductType: "Salsa",
				Timestamp:   validTime,
			},
			wantErr: ErrEmptyDescription,
		},
		{
			name: "incomplete triple",
			example: &NegativeExample{
				Text:      "acme salsa",
				Category:  "Snacks & Candy",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyField,
		},
		{
			name: "future timestamp",
			example: &NegativeExample{
				Text:        "acme salsa",
				Category:    "Snacks & Candy",
				Subcategory: "Dips",
				ProductType: "Salsa",
				Timestamp:   futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNegativeExample(tt.example)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateNegativeExample() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateNegativeExample() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateNegativeExample() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
