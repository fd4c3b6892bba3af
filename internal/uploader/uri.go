package uploader

import (
	"net/url"
	"path/filepath"

	"github.com/pkg/errors"
)

// EpisodeFileURI computes the public address an episode file will have after
// publishing, using the virtual-host bucket addressing style:
// {scheme}://{bucket}.{host}/{episodePath}/{filename}.
func EpisodeFileURI(endpoint, bucket, episodePath, localPath string) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.Errorf("invalid endpoint URL %q", endpoint)
	}

	public := url.URL{
		Scheme: parsed.Scheme,
		Host:   bucket + "." + parsed.Host,
		Path:   "/" + episodePath + "/" + filepath.Base(localPath),
	}
	return public.String(), nil
}
