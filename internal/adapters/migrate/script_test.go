package migrate

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func sampleModel() SchemaModel {
	return SchemaModel{
		Tables: []Table{
			{
				Name: "Subscriptions",
				Columns: []Column{
					{Name: "Id", Type: "INT", Identity: true},
					{Name: "PlanId", Type: "NVARCHAR(100)"},
					{Name: "PurchaserEmail", Type: "NVARCHAR(256)", Nullable: true},
					{Name: "CreatedDate", Type: "DATETIME2", Default: "GETUTCDATE()"},
				},
				PrimaryKey: []string{"Id"},
			},
			{
				Name: "Plans",
				Columns: []Column{
					{Name: "Id", Type: "INT", Identity: true},
					{Name: "DisplayName", Type: "NVARCHAR(100)"},
				},
				PrimaryKey: []string{"Id"},
			},
		},
	}
}

func TestGenerateStatementsIsDeterministic(t *testing.T) {
	first := GenerateStatements(sampleModel())
	second := GenerateStatements(sampleModel())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("two generations of the same model differ (-first +second):\n%s", diff)
	}
}

func TestGenerateStatementsOrdersTablesByName(t *testing.T) {
	statements := GenerateStatements(sampleModel())

	assert.Len(t, statements, 2)
	assert.Contains(t, statements[0], "[dbo].[Plans]")
	assert.Contains(t, statements[1], "[dbo].[Subscriptions]")
}

func TestGenerateStatementsAreGuarded(t *testing.T) {
	for _, stmt := range GenerateStatements(sampleModel()) {
		assert.True(t, strings.HasPrefix(stmt, "IF OBJECT_ID("), "every create must be guarded: %s", stmt)
	}
}

func TestCreateTableStatementShape(t *testing.T) {
	stmt := GenerateStatements(sampleModel())[1]

	assert.Contains(t, stmt, "[Id] INT IDENTITY(1,1) NOT NULL")
	assert.Contains(t, stmt, "[PurchaserEmail] NVARCHAR(256) NULL")
	assert.Contains(t, stmt, "[CreatedDate] DATETIME2 NOT NULL DEFAULT GETUTCDATE()")
	assert.Contains(t, stmt, "CONSTRAINT [PK_Subscriptions] PRIMARY KEY ([Id])")
}

func TestGrantStatementsPerIdentity(t *testing.T) {
	statements := GrantStatements("contoso-admin")

	assert.Len(t, statements, 4)
	assert.Contains(t, statements[0], "FROM EXTERNAL PROVIDER")
	assert.Contains(t, statements[0], "IF NOT EXISTS")
	assert.Contains(t, statements[1], "db_datareader")
	assert.Contains(t, statements[2], "db_datawriter")
	assert.Contains(t, statements[3], "GRANT EXECUTE")
}
