package ufat

// Remove deletes a file by name. Removing a name that does not exist is not
// an error: it returns nil and leaves the table untouched.
func (fs *FS) Remove(name string) error {
	if err := fs.requireMounted("Remove"); err != nil {
		return err
	}

	sector, _, found, err := fs.locate(name)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	if err := fs.freeChain(sector); err != nil {
		return err
	}
	return fs.commit()
}
