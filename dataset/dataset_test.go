package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/vaxset/config"
	"github.com/YuminosukeSato/vaxset/pkg/errors"
	"github.com/YuminosukeSato/vaxset/pkg/log"
)

// fixture files keyed by the config field they fill
type fixture struct {
	train, test          string
	all, testAll         string
	noOutliers           string
	noNulls, testNoNulls string
	index                string
}

const (
	scenarioTrain = `id,a,h1n1_vaccine,seasonal_vaccine
1,x,0,1
2,y,1,1
3,x,0,0
`
	scenarioTest = `id,a
4,y
5,z
`
)

func scenario() fixture {
	return fixture{
		train:       scenarioTrain,
		test:        scenarioTest,
		all:         "respondent_id,a,noise,h1n1_vaccine,seasonal_vaccine\n1,x,0.3,0,1\n2,y,0.9,1,1\n3,x,0.1,0,0\n",
		testAll:     "respondent_id,a,noise\n4,y,0.5\n5,z,0.2\n",
		noOutliers:  "respondent_id,a,h1n1_vaccine,seasonal_vaccine\n1,x,0,1\n3,x,0,0\n",
		noNulls:     "respondent_id,a,h1n1_vaccine,seasonal_vaccine\n1,x,0,1\n2,y,1,1\n",
		testNoNulls: "respondent_id,a\n4,y\n",
		index:       "id",
	}
}

func writeFixture(t *testing.T, fx fixture) *config.Config {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		return path
	}

	cfg := config.Default()
	cfg.Data.DatasetPath = write("train.csv", fx.train)
	cfg.Data.DatasetTestPath = write("test.csv", fx.test)
	cfg.Data.DatasetIndex = fx.index
	cfg.Data.DatasetAllPath = write("train_all.csv", fx.all)
	cfg.Data.DatasetTestAllPath = write("test_all.csv", fx.testAll)
	cfg.Data.DatasetNoOutliersPath = write("train_no_outliers.csv", fx.noOutliers)
	cfg.Data.DatasetNoNullsPath = write("train_no_nulls.csv", fx.noNulls)
	cfg.Data.DatasetTestNoNullsPath = write("test_no_nulls.csv", fx.testNoNulls)
	return cfg
}

func newDataset(t *testing.T, fx fixture) *Dataset {
	t.Helper()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	d, err := New(writeFixture(t, fx), WithLogger(logger))
	require.NoError(t, err)
	return d
}

func TestNewLogsLoad(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	_, err := New(writeFixture(t, scenario()), WithLogger(logger))
	require.NoError(t, err)

	assert.True(t, logger.ContainsMessage("dataset loaded"))
	assert.True(t, logger.ContainsField(log.SamplesKey, float64(3)))
	assert.True(t, logger.ContainsField(log.TestSamplesKey, float64(2)))
}

func TestRaw(t *testing.T) {
	d := newDataset(t, scenario())

	X, y := d.Raw()
	assert.Equal(t, []string{"a"}, X.Names())
	assert.Equal(t, []string{config.TargetH1N1, config.TargetSeasonal}, y.Names())
	assert.Equal(t, 3, X.Nrow())
	assert.Equal(t, 3, y.Nrow())
	assert.Equal(t, X.Index(), y.Index())
	assert.Equal(t, []string{"1", "2", "3"}, X.Index())

	for _, target := range []string{config.TargetH1N1, config.TargetSeasonal} {
		assert.False(t, X.Has(target))
	}
}

func TestRawReturnsCopies(t *testing.T) {
	d := newDataset(t, scenario())

	X, _ := d.Raw()
	X, err := X.Drop("a")
	require.NoError(t, err)
	assert.Equal(t, 0, X.Ncol())

	again, _ := d.Raw()
	assert.Equal(t, []string{"a"}, again.Names())
}

func TestTargetOrderFollowsConfig(t *testing.T) {
	cfg := writeFixture(t, scenario())
	cfg.Data.Targets = []string{config.TargetSeasonal, config.TargetH1N1}

	d, err := New(cfg)
	require.NoError(t, err)

	_, y := d.Raw()
	assert.Equal(t, []string{config.TargetSeasonal, config.TargetH1N1}, y.Names())
}

func TestOneHot(t *testing.T) {
	d := newDataset(t, scenario())

	v, err := d.OneHot()
	require.NoError(t, err)
	require.NotNil(t, v.Encoder)

	assert.Equal(t, []string{"a_x", "a_y", "a_z"}, v.X.Names())
	assert.Equal(t, v.X.Names(), v.Test.Names())
	assert.Equal(t, []string{"1", "2", "3"}, v.X.Index())
	assert.Equal(t, 2, v.Test.Nrow())
	assert.Equal(t, []string{"4", "5"}, v.Test.Index())
	assert.Equal(t, "id", v.Test.IndexName())
	assert.Equal(t, 3, v.Y.Nrow())

	assert.Equal(t, [][]string{
		{"id", "a_x", "a_y", "a_z"},
		{"4", "0", "1", "0"},
		{"5", "0", "0", "1"},
	}, v.Test.Records())
}

func TestOneHotEmptyTest(t *testing.T) {
	fx := scenario()
	fx.test = "id,a\n"
	d := newDataset(t, fx)

	v, err := d.OneHot()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Test.Nrow())
	assert.Equal(t, []string{"a_x", "a_y"}, v.Test.Names())
	assert.Equal(t, 3, v.X.Nrow())
}

func surveyFixture() fixture {
	cols := append(append([]string{"respondent_id"}, H1N1Features...), SeasonalFeatures...)
	cols = append(cols, "age_group")

	row := func(id string, extra ...string) string {
		cells := []string{id}
		for range H1N1Features {
			cells = append(cells, "1.0")
		}
		for range SeasonalFeatures {
			cells = append(cells, "2.0")
		}
		cells = append(cells, "65+ Years")
		return strings.Join(append(cells, extra...), ",")
	}

	header := strings.Join(cols, ",")
	train := header + ",h1n1_vaccine,seasonal_vaccine\n" +
		row("0", "0", "1") + "\n" +
		row("1", "1", "1") + "\n" +
		row("2", "0", "0") + "\n"
	test := header + "\n" + row("3") + "\n" + row("4") + "\n"

	fx := scenario()
	fx.train = train
	fx.test = test
	fx.index = "respondent_id"
	return fx
}

func TestDivision(t *testing.T) {
	d := newDataset(t, surveyFixture())

	h1n1, seasonal, err := d.Division()
	require.NoError(t, err)

	for _, c := range SeasonalFeatures {
		assert.False(t, h1n1.X.Has(c), c)
		assert.False(t, h1n1.Test.Has(c), c)
	}
	for _, c := range H1N1Features {
		assert.False(t, seasonal.X.Has(c), c)
		assert.False(t, seasonal.Test.Has(c), c)
		assert.True(t, h1n1.X.Has(c), c)
	}
	assert.True(t, seasonal.X.Has("opinion_seas_risk"))
	assert.True(t, h1n1.X.Has("age_group"))
	assert.True(t, seasonal.X.Has("age_group"))

	assert.Equal(t, config.TargetH1N1, h1n1.Y.Name())
	assert.Equal(t, config.TargetSeasonal, seasonal.Y.Name())
	assert.Equal(t, 3, h1n1.Y.Len())
	assert.Equal(t, 3, seasonal.Y.Len())
	assert.Equal(t, []string{"0", "1", "2"}, h1n1.Y.Index())

	labels, err := h1n1.Y.Int()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, labels)

	assert.Equal(t, h1n1.X.Names(), h1n1.Test.Names())
	assert.Equal(t, []string{"3", "4"}, seasonal.Test.Index())
}

func TestDivisionMissingBlockColumn(t *testing.T) {
	d := newDataset(t, scenario())

	_, _, err := d.Division()
	var cnf *errors.ColumnNotFoundError
	assert.True(t, errors.As(err, &cnf))
}

func TestAllFeatures(t *testing.T) {
	d := newDataset(t, scenario())

	v, err := d.AllFeatures()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "noise"}, v.X.Names())
	assert.Equal(t, "respondent_id", v.X.IndexName())
	assert.Equal(t, 3, v.Y.Nrow())
	assert.Equal(t, 2, v.Test.Nrow())
	assert.Nil(t, v.Encoder)
}

func TestAllOneHot(t *testing.T) {
	d := newDataset(t, scenario())

	v, err := d.AllOneHot()
	require.NoError(t, err)

	// encoded, not raw
	assert.False(t, v.X.Has("a"))
	assert.True(t, v.X.Has("a_z"))
	assert.Equal(t, v.X.Names(), v.Test.Names())
	assert.Equal(t, []string{"4", "5"}, v.Test.Index())
	assert.Equal(t, 3, v.X.Nrow())
}

func TestNoOutliers(t *testing.T) {
	d := newDataset(t, scenario())

	v, err := d.NoOutliers()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, v.X.Index())
	assert.Equal(t, 2, v.Y.Nrow())

	// test table is the primary one, unfiltered
	assert.Equal(t, []string{"4", "5"}, v.Test.Index())
	assert.Equal(t, "id", v.Test.IndexName())
}

func TestNoOutliersOneHot(t *testing.T) {
	d := newDataset(t, scenario())

	v, err := d.NoOutliersOneHot()
	require.NoError(t, err)

	// y and z only appear in the test table
	assert.Equal(t, []string{"a_x", "a_y", "a_z"}, v.X.Names())
	assert.Equal(t, []string{"1", "3"}, v.X.Index())
	assert.Equal(t, []string{"4", "5"}, v.Test.Index())
	assert.Equal(t, v.X.Names(), v.Test.Names())
}

func TestNoNulls(t *testing.T) {
	d := newDataset(t, scenario())

	v, err := d.NoNulls()
	require.NoError(t, err)
	assert.Equal(t, 2, v.X.Nrow())
	assert.Equal(t, 2, v.Y.Nrow())
	assert.Equal(t, 1, v.Test.Nrow())
}

func TestViewsAreIdempotent(t *testing.T) {
	d := newDataset(t, scenario())

	views := map[string]func() (*View, error){
		"onehot":             d.OneHot,
		"all_features":       d.AllFeatures,
		"no_outliers":        d.NoOutliers,
		"no_outliers_onehot": d.NoOutliersOneHot,
		"all_onehot":         d.AllOneHot,
		"no_nulls":           d.NoNulls,
	}
	for name, view := range views {
		t.Run(name, func(t *testing.T) {
			first, err := view()
			require.NoError(t, err)
			second, err := view()
			require.NoError(t, err)

			assert.Equal(t, first.X.Records(), second.X.Records())
			assert.Equal(t, first.Y.Records(), second.Y.Records())
			assert.Equal(t, first.Test.Records(), second.Test.Records())
		})
	}

	x1, y1 := d.Raw()
	x2, y2 := d.Raw()
	assert.Equal(t, x1.Records(), x2.Records())
	assert.Equal(t, y1.Records(), y2.Records())
}

func TestNewErrors(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil)
		var cfgErr *errors.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := New(config.Default())
		var cfgErr *errors.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("missing training file", func(t *testing.T) {
		cfg := writeFixture(t, scenario())
		cfg.Data.DatasetPath = filepath.Join(t.TempDir(), "missing.csv")

		_, err := New(cfg)
		var fnf *errors.FileNotFoundError
		assert.True(t, errors.As(err, &fnf))
	})

	t.Run("missing test file", func(t *testing.T) {
		cfg := writeFixture(t, scenario())
		cfg.Data.DatasetTestPath = filepath.Join(t.TempDir(), "missing.csv")

		_, err := New(cfg)
		var fnf *errors.FileNotFoundError
		assert.True(t, errors.As(err, &fnf))
	})

	t.Run("missing target column", func(t *testing.T) {
		fx := scenario()
		fx.train = "id,a,h1n1_vaccine\n1,x,0\n"
		_, err := New(writeFixture(t, fx))

		var cnf *errors.ColumnNotFoundError
		require.True(t, errors.As(err, &cnf))
		assert.Equal(t, config.TargetSeasonal, cnf.Column)
	})

	t.Run("missing index column", func(t *testing.T) {
		fx := scenario()
		fx.index = "respondent_id"
		_, err := New(writeFixture(t, fx))

		var cnf *errors.ColumnNotFoundError
		require.True(t, errors.As(err, &cnf))
		assert.Equal(t, "respondent_id", cnf.Column)
	})

	t.Run("overlapping index", func(t *testing.T) {
		fx := scenario()
		fx.test = "id,a\n3,y\n"
		_, err := New(writeFixture(t, fx))

		var idxErr *errors.IndexError
		require.True(t, errors.As(err, &idxErr))
		assert.Equal(t, "3", idxErr.Value)
	})
}

func TestVariantViewErrors(t *testing.T) {
	d := newDataset(t, scenario())
	require.NoError(t, os.Remove(d.cfg.DatasetNoNullsPath))

	_, err := d.NoNulls()
	var fnf *errors.FileNotFoundError
	assert.True(t, errors.As(err, &fnf))

	fx := scenario()
	fx.all = "respondent_id,a,h1n1_vaccine\n1,x,0\n"
	d = newDataset(t, fx)
	_, err = d.AllOneHot()
	var cnf *errors.ColumnNotFoundError
	assert.True(t, errors.As(err, &cnf))
}

func TestViewsAreLogged(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	d, err := New(writeFixture(t, scenario()), WithLogger(logger))
	require.NoError(t, err)

	_, err = d.OneHot()
	require.NoError(t, err)
	assert.True(t, logger.ContainsField(log.ViewKey, log.ViewOneHot))
}

func TestNoOutliersOneHotMatchesNumericSpellings(t *testing.T) {
	fx := scenario()
	fx.test = "id,a\n4,1\n5,2\n"
	fx.noOutliers = "respondent_id,a,h1n1_vaccine,seasonal_vaccine\n1,1.0,0,1\n2,2.0,1,1\n3,,0,0\n"
	d := newDataset(t, fx)

	v, err := d.NoOutliersOneHot()
	require.NoError(t, err)

	assert.Equal(t, []string{"a_1.0", "a_2.0", "a_NaN"}, v.X.Names())
	assert.Equal(t, v.X.Names(), v.Test.Names())
	assert.Equal(t, [][]string{
		{"id", "a_1.0", "a_2.0", "a_NaN"},
		{"4", "1", "0", "0"},
		{"5", "0", "1", "0"},
	}, v.Test.Records())
	assert.Equal(t, []string{"respondent_id", "a_1.0", "a_2.0", "a_NaN"}, v.X.Records()[0])
	assert.Equal(t, []string{"1", "1", "0", "0"}, v.X.Records()[1])
}

func TestOneHotCollidingFeatureNames(t *testing.T) {
	fx := scenario()
	fx.train = "id,a,a_b,h1n1_vaccine,seasonal_vaccine\n1,b_c,c,0,1\n2,x,c,1,0\n"
	fx.test = "id,a,a_b\n3,b_c,c\n"
	d := newDataset(t, fx)

	v, err := d.OneHot()
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b_c", "a_x", "a_b_c_1"}, v.X.Names())
	assert.Equal(t, [][]string{
		{"id", "a_b_c", "a_x", "a_b_c_1"},
		{"3", "1", "0", "1"},
	}, v.Test.Records())
}

func TestNewWithoutLogSection(t *testing.T) {
	cfg := writeFixture(t, scenario())

	d, err := New(&config.Config{Data: cfg.Data})
	require.NoError(t, err)

	X, _ := d.Raw()
	assert.Equal(t, 3, X.Nrow())
}
