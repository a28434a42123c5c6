package catalog

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/parquet-go/parquet-go"
	"github.com/pkg/errors"
	"github.com/talkincode/arcatalog/internal/domain"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadSeedFile reads a seed catalog, choosing the decoder by file
// extension. The result is validated and ready for a repository.
func LoadSeedFile(path string) ([]domain.Product, error) {
	var (
		products []domain.Product
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		products, err = loadJSON(path)
	case ".jsonl":
		products, err = loadJSONL(path)
	case ".yaml", ".yml":
		products, err = loadYAML(path)
	case ".csv":
		products, err = loadCSV(path)
	case ".parquet":
		products, err = loadParquet(path)
	default:
		return nil, errors.Errorf("unsupported seed format %q (supported: .json, .jsonl, .yaml, .yml, .csv, .parquet)", ext)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "load seed %s", path)
	}
	if len(products) == 0 {
		return nil, errors.Errorf("seed %s contains no products", path)
	}
	return PrepareCatalog(products)
}

func loadJSON(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse json")
	}
	return decodeDocument(doc)
}

func loadJSONL(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []interface{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec map[string]interface{}
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, errors.Wrapf(err, "parse line %d", line)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return decodeRecords(records)
}

func loadYAML(path string) ([]domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	return decodeDocument(doc)
}

func loadCSV(path string) ([]domain.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []*csvRecord
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toProduct()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func loadParquet(path string) ([]domain.Product, error) {
	rows, err := parquet.ReadFile[parquetRecord](path)
	if err != nil {
		return nil, errors.Wrap(err, "read parquet")
	}
	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toProduct())
	}
	return products, nil
}

// decodeDocument accepts either a bare list of products or an object
// with a "products" list.
func decodeDocument(doc interface{}) ([]domain.Product, error) {
	switch v := doc.(type) {
	case []interface{}:
		return decodeRecords(v)
	case map[string]interface{}:
		list, ok := v["products"].([]interface{})
		if !ok {
			return nil, errors.New(`expected a list of products or an object with a "products" list`)
		}
		return decodeRecords(list)
	default:
		return nil, errors.New("expected a list of products")
	}
}

func decodeRecords(records []interface{}) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(records))
	for i, rec := range records {
		var p domain.Product
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           &p,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(rec); err != nil {
			return nil, errors.Wrapf(domain.ErrInvalidProduct, "record #%d: %v", i+1, err)
		}
		products = append(products, p)
	}
	return products, nil
}
