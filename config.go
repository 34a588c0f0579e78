package wordcloud

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// LoadConfig reads a TOML configuration file into the processor.
// Keys missing from the file keep their current value. It returns
// the keys defined by the file, with the same names as the CLI flags.
func LoadConfig(path string, p *Processor) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read the config file %q", path)
	}
	return DecodeConfig(data, p)
}

// DecodeConfig decodes the TOML data into the processor. Unknown keys are rejected.
func DecodeConfig(data []byte, p *Processor) ([]string, error) {
	md, err := toml.Decode(string(data), p)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode the config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, configErrorf("config", "unknown key %q", undecoded[0].String())
	}
	keys := make([]string, 0, len(md.Keys()))
	for _, k := range md.Keys() {
		keys = append(keys, k.String())
	}
	return keys, nil
}

// WriteConfig encodes the processor options as TOML.
func (p *Processor) WriteConfig(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		return errors.Wrap(err, "could not encode the config")
	}
	return nil
}
