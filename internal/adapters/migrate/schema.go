package migrate

import (
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/soladipe/saas-provision/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SchemaModel declares the tables the application database needs. The model
// is data, not SQL; the runner turns it into an idempotent script.
type SchemaModel struct {
	Tables []Table `json:"tables"`
}

type Table struct {
	Name       string   `json:"name"`
	Columns    []Column `json:"columns"`
	PrimaryKey []string `json:"primary_key"`
}

type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Default  string `json:"default"`
	Identity bool   `json:"identity"`
}

// LoadModel reads a schema model file.
func LoadModel(path string) (SchemaModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SchemaModel{}, errors.Wrapf(err, errors.CodeMigrationError, "reading schema model %s", path)
	}
	var model SchemaModel
	if err := json.Unmarshal(data, &model); err != nil {
		return SchemaModel{}, errors.Wrapf(err, errors.CodeMigrationError, "parsing schema model %s", path)
	}
	if len(model.Tables) == 0 {
		return SchemaModel{}, errors.Newf(errors.CodeMigrationError, "schema model %s declares no tables", path)
	}
	for _, table := range model.Tables {
		if table.Name == "" {
			return SchemaModel{}, errors.Newf(errors.CodeMigrationError, "schema model %s contains a table without a name", path)
		}
		if len(table.Columns) == 0 {
			return SchemaModel{}, errors.Newf(errors.CodeMigrationError, "table %s declares no columns", table.Name)
		}
	}
	return model, nil
}
