// Package sqlbuild renders the blob statements for a profile and binds their
// named placeholders for a specific driver.
package sqlbuild

import (
	"fmt"

	"github.com/vvka-141/blobloader/pkg/blobloader"
)

// Placeholder names shared by both statement templates.
const (
	ParamID   = "id"
	ParamBlob = "blobData"
)

// Statements holds the two rendered templates for a profile.
type Statements struct {
	Update string
	Select string
}

// Build renders both statements. Identifiers are substituted verbatim;
// the configuration file is trusted.
func Build(p *blobloader.Profile) Statements {
	return Statements{
		Update: UpdateStatement(p),
		Select: SelectStatement(p),
	}
}

// UpdateStatement renders the statement that stores a blob for an id.
func UpdateStatement(p *blobloader.Profile) string {
	return fmt.Sprintf("UPDATE %s%s SET %s=:%s WHERE %s = :%s",
		p.SchemaPrefix(), p.TableName, p.BlobColumn, ParamBlob, p.IDColumn, ParamID)
}

// SelectStatement renders the statement that fetches the blob for an id.
func SelectStatement(p *blobloader.Profile) string {
	return fmt.Sprintf("SELECT %s FROM %s%s WHERE %s = :%s",
		p.BlobColumn, p.SchemaPrefix(), p.TableName, p.IDColumn, ParamID)
}
