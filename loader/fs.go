package loader

import "os"

func osStat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
