// Package all wires every built-in storage backend into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each backend, which register their
// factories with the storage package. The kinds made available are:
//
//   - "postgres" (moviebench/internal/storage/postgres)
//   - "sqlite"   (moviebench/internal/storage/sqlite)
//   - "mssql"    (moviebench/internal/storage/mssql)
//   - "mysql"    (moviebench/internal/storage/mysql)
//
// A binary that needs only a subset can import the backends it wants
// directly instead of this package.
package all

import (
	_ "moviebench/internal/storage/mssql"
	_ "moviebench/internal/storage/mysql"
	_ "moviebench/internal/storage/postgres"
	_ "moviebench/internal/storage/sqlite"
)
