package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/amvnote/amvnote/filesystem"
	"github.com/amvnote/amvnote/network"
	"github.com/amvnote/amvnote/util"
	"github.com/amvnote/amvnote/where"
	"github.com/metafates/gache"
)

var versionCacher = gache.New[string](filesystem.GacheOptions(
	filepath.Join(where.Cache(), "version.json"),
	48*time.Hour,
))

const releasesURL = "https://api.github.com/repos/amvnote/amvnote/releases/latest"

// Latest returns the newest released version. Answers are cached for two days.
func Latest() (version string, err error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	resp, err := network.Get(context.Background(), releasesURL, map[string]string{
		"Accept": "application/vnd.github+json",
	})
	if err != nil {
		return
	}

	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("release check: %s", resp.Status)
		return
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	err = json.NewDecoder(resp.Body).Decode(&release)
	if err != nil {
		return
	}

	if release.TagName == "" {
		err = errors.New("empty tag name")
		return
	}

	version = strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(version)
	return
}
