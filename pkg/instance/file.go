package instance

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"go.uber.org/zap"
)

const bzip2Ext = ".bz2"

// WriteFile writes inst to filename. files ending in .bz2 are bzip2 compressed.
// the data goes to a temporary sibling first, a failed write never leaves a partial instance behind.
func WriteFile(filename string, inst *Instance) error {
	dir := filepath.Dir(filename)
	f, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	committed := false
	defer func() {
		if !committed {
			f.Close()
			os.Remove(tmpName)
		}
	}()

	if strings.HasSuffix(filename, bzip2Ext) {
		bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
		if err != nil {
			return err
		}
		if err := WriteInstance(bz, inst); err != nil {
			return err
		}
		if err := bz.Close(); err != nil {
			return err
		}
	} else if err := WriteInstance(f, inst); err != nil {
		return err
	}

	if err := f.Chmod(0644); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}
	committed = true
	return nil
}

// ReadFile opens, fully parses and closes filename.
func ReadFile(filename string, log *zap.Logger) (*Instance, error) {
	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, util.WrapErrorf(err, util.ErrMissingInput, "instance file %s", filename)
		}
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, bzip2Ext) {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		r = bz
	}

	inst, leftover, err := ReadInstanceWithLeftover(r)
	if err != nil {
		return nil, fmt.Errorf("read instance %s: %w", filename, err)
	}
	if leftover > 0 {
		log.Warn("instance file has records after the declared sections",
			zap.String("file", filename), zap.Int("leftover", leftover))
	}
	log.Info("instance loaded", zap.String("file", filename),
		zap.Int("edges", len(inst.Edges)), zap.Int("demands", len(inst.Demands)),
		zap.Int("vehicle_depots", len(inst.VehicleDepots)), zap.Int("drone_depots", len(inst.DroneDepots)),
		zap.Int("extra_demands", len(inst.ExtraDemands)))
	return inst, nil
}
