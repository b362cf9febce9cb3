package dircpy

// Copy copies the tree at source into dest. Existing destination files are
// left untouched.
func Copy(source, dest string) error {
	return NewBuilder(source, dest).Run()
}

// CopyAdvanced copies the tree at source into dest with the given overwrite
// policies and substring filters.
func CopyAdvanced(
	source, dest string,
	overwriteAll, overwriteIfNewer, overwriteIfSizeDiffers bool,
	exclude, include []string,
) error {
	return Job{
		Source: source,
		Dest:   dest,
		Options: Options{
			OverwriteAll:           overwriteAll,
			OverwriteIfNewer:       overwriteIfNewer,
			OverwriteIfSizeDiffers: overwriteIfSizeDiffers,
			ExcludeFilters:         append([]string(nil), exclude...),
			IncludeFilters:         append([]string(nil), include...),
		},
	}.Run()
}
