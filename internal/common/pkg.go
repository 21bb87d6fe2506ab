package common

import "path"

// PkgAlias returns the default import name of pkgPath, its last element.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// Qualify returns name as referenced from another package: "store.Order"
// for typemeta/store and Order, or name alone without a package.
func Qualify(pkgPath, name string) string {
	if alias := PkgAlias(pkgPath); alias != "" {
		return alias + "." + name
	}

	return name
}
