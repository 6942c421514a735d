package migrate

import (
	"fmt"
	"sort"
	"strings"
)

// GenerateStatements turns the model into idempotent T-SQL, one statement
// per element. Tables are emitted in name order and columns in declaration
// order, so two generations of the same model are byte-identical.
func GenerateStatements(model SchemaModel) []string {
	tables := make([]Table, len(model.Tables))
	copy(tables, model.Tables)
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })

	statements := make([]string, 0, len(tables))
	for _, table := range tables {
		statements = append(statements, createTableStatement(table))
	}
	return statements
}

func createTableStatement(table Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IF OBJECT_ID(N'[dbo].[%s]', N'U') IS NULL\n", table.Name)
	fmt.Fprintf(&b, "CREATE TABLE [dbo].[%s] (\n", table.Name)

	lines := make([]string, 0, len(table.Columns)+1)
	for _, col := range table.Columns {
		lines = append(lines, "    "+columnDefinition(col))
	}
	if len(table.PrimaryKey) > 0 {
		cols := make([]string, len(table.PrimaryKey))
		for i, name := range table.PrimaryKey {
			cols[i] = fmt.Sprintf("[%s]", name)
		}
		lines = append(lines, fmt.Sprintf("    CONSTRAINT [PK_%s] PRIMARY KEY (%s)", table.Name, strings.Join(cols, ", ")))
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")
	return b.String()
}

func columnDefinition(col Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", col.Name, col.Type)
	if col.Identity {
		b.WriteString(" IDENTITY(1,1)")
	}
	if col.Nullable {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}
	if col.Default != "" {
		fmt.Fprintf(&b, " DEFAULT %s", col.Default)
	}
	return b.String()
}

// GrantStatements produces the role grant batch for one compute identity.
// The user is created from the directory when absent; re-running against an
// existing user is a no-op.
func GrantStatements(identity string) []string {
	quoted := strings.ReplaceAll(identity, "]", "]]")
	literal := strings.ReplaceAll(identity, "'", "''")
	return []string{
		fmt.Sprintf("IF NOT EXISTS (SELECT 1 FROM sys.database_principals WHERE name = N'%s')\nCREATE USER [%s] FROM EXTERNAL PROVIDER", literal, quoted),
		fmt.Sprintf("ALTER ROLE db_datareader ADD MEMBER [%s]", quoted),
		fmt.Sprintf("ALTER ROLE db_datawriter ADD MEMBER [%s]", quoted),
		fmt.Sprintf("GRANT EXECUTE TO [%s]", quoted),
	}
}
