package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lintang-b-s/dronedelivery/pkg/concurrent"
	"github.com/lintang-b-s/dronedelivery/pkg/instance"
	"github.com/lintang-b-s/dronedelivery/pkg/util"
	"go.uber.org/zap"
)

type batchJob struct {
	cfg  Config
	path string
}

// BatchPaths names count output files after outputPath. a single instance keeps outputPath as is,
// otherwise the i-th file gets a "_i" suffix before its extension ("out_0.txt", "out_1.txt.bz2", ...).
func BatchPaths(outputPath string, count int) []string {
	if count == 1 {
		return []string{outputPath}
	}
	dir, base := filepath.Split(outputPath)
	ext := ""
	if strings.HasSuffix(base, ".bz2") {
		ext = ".bz2"
		base = strings.TrimSuffix(base, ext)
	}
	ext = filepath.Ext(base) + ext
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	paths := make([]string, count)
	for i := 0; i < count; i++ {
		paths[i] = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
	}
	return paths
}

// GenerateBatch generates count instances with seeds cfg.Seed, cfg.Seed+1, ... in parallel and
// writes each one to its own file. it returns the written paths, or the first failure in seed order.
func (g *Generator) GenerateBatch(cfg Config, count, workers int, outputPath string) ([]string, error) {
	if count < 1 {
		return nil, util.WrapErrorf(nil, util.ErrConfig, "batch size %d must be positive", count)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	paths := BatchPaths(outputPath, count)
	jobs := make([]batchJob, count)
	for i := range jobs {
		jobCfg := cfg
		jobCfg.Seed = cfg.Seed + uint64(i)
		jobs[i] = batchJob{cfg: jobCfg, path: paths[i]}
	}

	results := concurrent.RunAll(workers, jobs, func(job batchJob) (string, error) {
		inst, err := g.Generate(job.cfg)
		if err != nil {
			return "", err
		}
		if err := instance.WriteFile(job.path, inst); err != nil {
			return "", err
		}
		g.log.Info("instance written", zap.String("file", job.path), zap.Uint64("seed", job.cfg.Seed))
		return job.path, nil
	})

	written := make([]string, 0, len(results))
	for _, res := range results {
		if res.Err != nil {
			return written, res.Err
		}
		written = append(written, res.Value)
	}
	return written, nil
}
