package metadata

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return NewRegistry(
		&Entity{
			Name: "Order",
			Columns: []Column{
				{Name: "Id"},
				{Name: "CustomerId"},
				{Name: "Total", Column: "total_amount"},
			},
			Relationships: []Relationship{
				{Name: "Customer", Target: "Customer", Cardinality: ManyToOne, ForeignKey: "CustomerId", References: "Id"},
			},
		},
		&Entity{
			Name:  "Customer",
			Table: "customers",
			Columns: []Column{
				{Name: "Id"},
				{Name: "FullName"},
			},
		},
	)
}

func TestDerivedNames(t *testing.T) {
	r := testRegistry()

	order, err := r.Entity("Order")
	require.NoError(t, err)
	assert.Equal(t, "orders", order.Table)

	col, err := order.Column("CustomerId")
	require.NoError(t, err)
	assert.Equal(t, "customer_id", col.Column)

	// Explicit names win over derivation.
	col, err = order.Column("Total")
	require.NoError(t, err)
	assert.Equal(t, "total_amount", col.Column)

	customer, err := r.Entity("Customer")
	require.NoError(t, err)
	col, err = customer.Column("FullName")
	require.NoError(t, err)
	assert.Equal(t, "full_name", col.Column)
}

func TestUnknownEntityAndProperty(t *testing.T) {
	r := testRegistry()

	_, err := r.Entity("Invoice")
	require.Error(t, err)
	var semErr *SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, "Invoice", semErr.Entity)
	assert.Empty(t, semErr.Property)

	order, err := r.Entity("Order")
	require.NoError(t, err)
	_, err = order.Column("Nope")
	require.Error(t, err)
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, "Order", semErr.Entity)
	assert.Equal(t, "Nope", semErr.Property)
}

func TestRelationshipLookup(t *testing.T) {
	r := testRegistry()
	order, err := r.Entity("Order")
	require.NoError(t, err)

	rel, ok := order.Relationship("Customer")
	require.True(t, ok)
	assert.Equal(t, "Customer", rel.Target)
	assert.Equal(t, ManyToOne, rel.Cardinality)
	assert.Equal(t, "CustomerId", rel.ForeignKey)

	_, ok = order.Relationship("Id")
	assert.False(t, ok)
}

const sampleSchema = `
entities:
  - name: User
    columns:
      - name: Id
      - name: Email
        nullable: true
  - name: OrderLine
    table: order_lines
    columns:
      - name: Id
      - name: OrderId
    relationships:
      - name: Order
        target: Order
        cardinality: many-to-one
        foreignKey: OrderId
        references: Id
`

func TestParseSchema(t *testing.T) {
	r, err := Parse([]byte(sampleSchema))
	require.NoError(t, err)

	user, err := r.Entity("User")
	require.NoError(t, err)
	assert.Equal(t, "users", user.Table)
	col, err := user.Column("Email")
	require.NoError(t, err)
	assert.True(t, col.Nullable)

	line, err := r.Entity("OrderLine")
	require.NoError(t, err)
	assert.Equal(t, "order_lines", line.Table)
	rel, ok := line.Relationship("Order")
	require.True(t, ok)
	assert.Equal(t, ManyToOne, rel.Cardinality)
}

func TestParseSchemaRejectsBadCardinality(t *testing.T) {
	_, err := Parse([]byte(`
entities:
  - name: A
    relationships:
      - name: B
        target: B
        cardinality: sideways
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cardinality")
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "schema.yaml", []byte(sampleSchema), 0o644))

	r, err := LoadFile(fs, "schema.yaml")
	require.NoError(t, err)
	_, err = r.Entity("User")
	assert.NoError(t, err)

	_, err = LoadFile(fs, "missing.yaml")
	require.Error(t, err)
	assert.False(t, errors.As(err, new(*SemanticError)))
}
