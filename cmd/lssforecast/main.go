package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/lssforecast/internal/config"
	"github.com/san-kum/lssforecast/internal/cosmo"
	"github.com/san-kum/lssforecast/internal/evidence"
	"github.com/san-kum/lssforecast/internal/export"
	"github.com/san-kum/lssforecast/internal/forecast"
	"github.com/san-kum/lssforecast/internal/spectrum"
	"github.com/san-kum/lssforecast/internal/store"
	"github.com/san-kum/lssforecast/internal/sweep"
	"github.com/san-kum/lssforecast/internal/systematics"
	"github.com/san-kum/lssforecast/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	aPhi      float64
	phase     float64
	kPivot    float64
	nk        int
	volume    float64
	zEff      float64
	nGal      float64
	kMin      float64
	kMax      float64
	binWidth  string
	shotNoise string
	noSys     bool
	provider  string
	specFile  string

	asJSON  bool
	svgPath string

	// sweep
	aMin     float64
	aMax     float64
	steps    int
	workers  int
	scenario string
	snrLevel float64

	// evidence
	nSamples int
	seed     uint64
)

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "lssforecast",
		Short: "log-periodic modulation forecasts for galaxy surveys",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lssforecast", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset survey configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	forecastCmd := &cobra.Command{
		Use:   "forecast",
		Short: "forecast the modulation amplitude uncertainty",
		RunE:  runForecast,
	}
	addForecastFlags(forecastCmd)
	forecastCmd.Flags().BoolVar(&asJSON, "json", false, "print full result as JSON instead of a summary")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "plot the base and modulated power spectrum",
		RunE:  runSpectrum,
	}
	addForecastFlags(spectrumCmd)
	spectrumCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG plot to this path")

	baoCmd := &cobra.Command{
		Use:   "bao",
		Short: "plot the correlation function around the acoustic scale",
		RunE:  runBAO,
	}
	addForecastFlags(baoCmd)
	baoCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG plot to this path")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the assumed amplitude and report detectability",
		RunE:  runSweep,
	}
	addForecastFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&aMin, "a-min", 0.001, "lowest amplitude")
	sweepCmd.Flags().Float64Var(&aMax, "a-max", 0.05, "highest amplitude")
	sweepCmd.Flags().IntVar(&steps, "steps", 20, "number of amplitudes")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "parallel workers")
	sweepCmd.Flags().StringVar(&scenario, "scenario", "", "scenario file (yaml), overrides flags")
	sweepCmd.Flags().Float64Var(&snrLevel, "snr", 5.0, "detection threshold in sigma")

	evidenceCmd := &cobra.Command{
		Use:   "evidence",
		Short: "compare the modulated model against the baseline on mock data",
		RunE:  runEvidence,
	}
	addForecastFlags(evidenceCmd)
	evidenceCmd.Flags().IntVar(&nSamples, "samples", 2000, "posterior samples per model")
	evidenceCmd.Flags().Uint64Var(&seed, "seed", 42, "mock data seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list survey presets",
		RunE:  listPresetNames,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored forecast runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export stored bins to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Save(args[0], config.DefaultConfig())
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive modulation explorer",
		RunE:  runLive,
	}
	addForecastFlags(liveCmd)

	rootCmd.AddCommand(forecastCmd, spectrumCmd, baoCmd, sweepCmd, evidenceCmd,
		presetsCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, initCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addForecastFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&aPhi, "a-phi", config.DefaultAmplitude, "assumed true amplitude")
	cmd.Flags().Float64Var(&phase, "phase", 0.0, "modulation phase (radians)")
	cmd.Flags().Float64Var(&kPivot, "k-pivot", config.DefaultKPivot, "pivot scale (h/Mpc)")
	cmd.Flags().IntVar(&nk, "nk", config.DefaultNK, "number of k bins")
	cmd.Flags().Float64Var(&volume, "volume", config.DefaultVolume, "survey volume ((Gpc/h)^3)")
	cmd.Flags().Float64Var(&zEff, "z-eff", config.DefaultZEff, "effective redshift")
	cmd.Flags().Float64Var(&nGal, "n-gal", config.DefaultNGal, "galaxy density ((h/Mpc)^3)")
	cmd.Flags().Float64Var(&kMin, "k-min", config.DefaultKMin, "lowest wavenumber (h/Mpc)")
	cmd.Flags().Float64Var(&kMax, "k-max", config.DefaultKMax, "highest wavenumber (h/Mpc)")
	cmd.Flags().StringVar(&binWidth, "bin-width", string(spectrum.BinWidthForward), "bin width convention: forward or log10")
	cmd.Flags().StringVar(&shotNoise, "shot-noise", string(forecast.ShotNoiseNone), "shot noise convention: none or folded")
	cmd.Flags().BoolVar(&noSys, "no-systematics", false, "skip the systematic error budget")
	cmd.Flags().StringVar(&provider, "provider", "", "base spectrum provider: eisenstein-hu or file")
	cmd.Flags().StringVar(&specFile, "spectrum-file", "", "tabulated spectrum (CSV) for the file provider")
}

// loadConfig resolves preset, config file and flags in increasing precedence,
// the same order the flags are documented in.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("a-phi") {
		cfg.Forecast.Amplitude = aPhi
	}
	if flags.Changed("phase") {
		cfg.Forecast.Phase = phase
	}
	if flags.Changed("k-pivot") {
		cfg.Forecast.KPivot = kPivot
	}
	if flags.Changed("nk") {
		cfg.Forecast.NK = nk
	}
	if flags.Changed("bin-width") {
		cfg.Forecast.BinWidth = spectrum.BinWidthConvention(binWidth)
	}
	if flags.Changed("shot-noise") {
		cfg.Forecast.ShotNoise = forecast.ShotNoiseConvention(shotNoise)
	}
	if flags.Changed("volume") {
		cfg.Survey.Volume = volume
	}
	if flags.Changed("z-eff") {
		cfg.Survey.ZEff = zEff
	}
	if flags.Changed("n-gal") {
		cfg.Survey.NGal = nGal
	}
	if flags.Changed("k-min") {
		cfg.Survey.KMin = kMin
	}
	if flags.Changed("k-max") {
		cfg.Survey.KMax = kMax
	}
	if flags.Changed("no-systematics") {
		cfg.IncludeSystematics = !noSys
	}
	if flags.Changed("provider") {
		cfg.Provider = provider
	}
	if flags.Changed("spectrum-file") {
		cfg.ProviderPath = specFile
		cfg.Provider = "file"
	}

	if verbose {
		slog.SetDefault(slog.New(
			tint.NewHandler(os.Stderr, &tint.Options{
				Level:      slog.LevelDebug,
				TimeFormat: "15:04:05",
			}),
		))
	}

	return cfg, cfg.Validate()
}

func newForecaster(cfg *config.Config) *forecast.Forecaster {
	var p spectrum.Provider
	switch cfg.Provider {
	case "file":
		p = &spectrum.FileProvider{Path: cfg.ProviderPath, Redshift: cfg.Survey.ZEff}
	default:
		p = cosmo.EisensteinHu{}
	}
	return forecast.New(p, cfg.Cosmology)
}

func runForecast(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	f := newForecaster(cfg)
	slog.Debug("running forecast", "survey", cfg.Survey.Name, "a_phi", cfg.Forecast.Amplitude)
	start := time.Now()

	res, err := f.Forecast(cfg.Survey, cfg.Forecast)
	if err != nil {
		return err
	}

	var budget *systematics.Budget
	if cfg.IncludeSystematics {
		budget, err = systematics.Apply(res, cfg.Cosmology, cfg.Systematics)
		if err != nil {
			return err
		}
	}

	if asJSON {
		return store.ExportJSONStdout(res, budget)
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(res, budget)
	if err != nil {
		return err
	}
	slog.Info("forecast complete", "run_id", runID, "elapsed", time.Since(start))

	fmt.Printf("survey: %s  (V=%.1f (Gpc/h)^3, z_eff=%.2f)\n", cfg.Survey.Name, cfg.Survey.Volume, cfg.Survey.ZEff)
	fmt.Printf("bins: %d in [%.3g, %.3g] h/Mpc (%s widths, %s shot noise)\n\n",
		cfg.Forecast.NK, cfg.Survey.KMin, cfg.Survey.KMax, cfg.Forecast.BinWidth, cfg.Forecast.ShotNoise)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "a_phi (assumed)\t%.4f\n", cfg.Forecast.Amplitude)
	fmt.Fprintf(w, "sigma(a_phi) stat\t%.4e\n", res.SigmaA)
	fmt.Fprintf(w, "SNR stat\t%.2f\n", res.SNR)
	if budget != nil {
		fmt.Fprintf(w, "sigma(a_phi) sys\t%.4e\n", budget.SigmaASys)
		fmt.Fprintf(w, "sigma(a_phi) total\t%.4e\n", budget.SigmaATotal)
		fmt.Fprintf(w, "SNR total\t%.2f\n", cfg.Forecast.Amplitude/budget.SigmaATotal)
	}
	return w.Flush()
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	res, err := newForecaster(cfg).Forecast(cfg.Survey, cfg.Forecast)
	if err != nil {
		return err
	}

	if svgPath != "" {
		svg := export.SpectrumToSVG(res.K, []export.Curve{
			{Y: res.PBase, Color: "#00ccff"},
			{Y: res.PMod, Color: "#ff8800"},
		}, 900, 500)
		return os.WriteFile(svgPath, []byte(svg), 0644)
	}

	graph := asciigraph.Plot(res.Factor,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("modulation factor, k in [%.3g, %.3g] h/Mpc", cfg.Survey.KMin, cfg.Survey.KMax)),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(res.PMod,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("modulated P(k) [(Mpc/h)^3]"),
	)
	fmt.Println(graph)
	return nil
}

func runBAO(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eh := cosmo.EisensteinHu{}
	k, pk, err := eh.Spectrum(cfg.Cosmology, []float64{cfg.Survey.ZEff}, 1e-4, 2.0, 2000)
	if err != nil {
		return err
	}

	p := pk[0]
	if cfg.Forecast.Amplitude > 0 {
		p, _, err = spectrum.Modulate(k, p, cfg.Forecast.Amplitude, cfg.Forecast.Phase, cfg.Forecast.KPivot)
		if err != nil {
			return err
		}
	}

	r, xi, err := spectrum.Correlation(k, p, 80, 120, 80)
	if err != nil {
		return err
	}

	if svgPath != "" {
		svg := export.CorrelationToSVG(r, xi, 900, 500, "#00ff88")
		return os.WriteFile(svgPath, []byte(svg), 0644)
	}

	scaled := make([]float64, len(xi))
	for i := range xi {
		scaled[i] = xi[i] * r[i] * r[i]
	}
	graph := asciigraph.Plot(scaled,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("r^2 xi(r), r in [80, 120] Mpc/h"),
	)
	fmt.Println(graph)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sweeps := []sweep.AmplitudeSweep{{
		Survey:  cfg.Survey,
		Options: cfg.Forecast,
		AMin:    aMin,
		AMax:    aMax,
		Steps:   steps,
		Workers: workers,
	}}
	if scenario != "" {
		sc, err := sweep.LoadScenario(scenario)
		if err != nil {
			return err
		}
		slog.Info("loaded scenario", "name", sc.Name, "sweeps", len(sc.Sweeps))
		sweeps = sc.Sweeps
	}

	f := newForecaster(cfg)
	for _, sw := range sweeps {
		points, err := sweep.Run(context.Background(), f, &sw)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d amplitudes in [%.4g, %.4g]\n\n", sw.Survey.Name, sw.Steps, sw.AMin, sw.AMax)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "A_PHI\tSIGMA(A)\tSNR")
		for _, pt := range points {
			fmt.Fprintf(w, "%.4f\t%.4e\t%.2f\n", pt.Amplitude, pt.SigmaA, pt.SNR)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if a, err := sweep.DetectionThreshold(points, snrLevel); err == nil {
			fmt.Printf("\nsmallest detectable amplitude at %.0f sigma: %.4f\n\n", snrLevel, a)
		} else {
			fmt.Printf("\nno swept amplitude reaches %.0f sigma\n\n", snrLevel)
		}
	}
	return nil
}

func runEvidence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	f := newForecaster(cfg)
	res, err := f.Forecast(cfg.Survey, cfg.Forecast)
	if err != nil {
		return err
	}

	// Mock data: the modulated spectrum plus per-bin Gaussian noise.
	rng := rand.New(rand.NewPCG(seed, seed))
	n := len(res.K)
	data := make([]float64, n)
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		noise := distuv.Normal{Mu: 0, Sigma: res.SigmaP[i], Src: rng}
		data[i] = res.PMod[i] + noise.Rand()
		cov.SetSym(i, i, res.SigmaP[i]*res.SigmaP[i])
	}

	lcdmPred := func(theta []float64) []float64 { return res.PBase }
	phiPred := func(theta []float64) []float64 {
		mod, _, err := spectrum.Modulate(res.K, res.PBase, theta[0], cfg.Forecast.Phase, cfg.Forecast.KPivot)
		if err != nil {
			return res.PBase
		}
		return mod
	}

	g, err := evidence.NewGaussianLikelihood(data, cov, lcdmPred, phiPred)
	if err != nil {
		return err
	}

	// Posterior draws: the baseline has no free parameters; the modulated
	// model gets amplitude draws around the truth at the forecast width.
	samplesLCDM := make([][]float64, nSamples)
	samplesPhi := make([][]float64, nSamples)
	post := distuv.Normal{Mu: cfg.Forecast.Amplitude, Sigma: res.SigmaA, Src: rng}
	for i := 0; i < nSamples; i++ {
		samplesLCDM[i] = []float64{}
		a := post.Rand()
		if a < 0 {
			a = 0
		}
		samplesPhi[i] = []float64{a}
	}

	comp, err := evidence.Compare(g, samplesLCDM, samplesPhi)
	if err != nil {
		return err
	}

	fmt.Printf("mock data: %s, true a_phi = %.4f, seed %d\n\n", cfg.Survey.Name, cfg.Forecast.Amplitude, seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "log Z (baseline)\t%.2f\n", comp.LogZLCDM)
	fmt.Fprintf(w, "log Z (modulated)\t%.2f\n", comp.LogZPhi)
	fmt.Fprintf(w, "log10 B\t%.2f\n", comp.Log10B)
	fmt.Fprintf(w, "delta BIC\t%.2f\n", comp.DeltaBIC)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nBayes factor: %s\n", comp.BayesVerdict)
	fmt.Printf("BIC: %s\n", comp.BICVerdict)
	if comp.Unstable {
		slog.Warn("harmonic mean estimate is unstable, treat log Z as order-of-magnitude")
	}
	return nil
}

func listPresetNames(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVOLUME\tZ_EFF\tN_GAL\tK_RANGE\tBINS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.1f\t%.2f\t%.1e\t[%.3g, %.3g]\t%d\n",
			name, p.Survey.Volume, p.Survey.ZEff, p.Survey.NGal,
			p.Survey.KMin, p.Survey.KMax, p.Forecast.NK)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSURVEY\tTIME\tA_PHI\tSIGMA(A)\tSNR")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%.4e\t%.2f\n",
			run.ID,
			run.Survey.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Options.Amplitude,
			run.SigmaA,
			run.SNR,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	cols, err := st.LoadBins(args[0])
	if err != nil {
		return err
	}

	pBase, pMod := cols["p_base"], cols["p_mod"]
	if len(pBase) == 0 || len(pMod) != len(pBase) {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("survey: %s\n", meta.Survey.Name)
	fmt.Printf("bins: %d\n\n", len(pBase))

	factor := make([]float64, len(pBase))
	for i := range pBase {
		if pBase[i] != 0 {
			factor[i] = pMod[i] / pBase[i]
		}
	}

	graph := asciigraph.Plot(factor,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("modulation factor"),
	)
	fmt.Println(graph)
	fmt.Println()

	graph = asciigraph.Plot(cols["sigma_p"],
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("per-bin error sigma_P [(Mpc/h)^3]"),
	)
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	cols, err := st.LoadBins(args[0])
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("no data to export")
	}

	header := []string{"k", "p_base", "p_mod", "sigma_p", "dp_da"}
	if _, ok := cols["sigma_sys"]; ok {
		header = append(header, "sigma_sys", "sigma_total")
	}
	columns := make([][]float64, len(header))
	for i, name := range header {
		columns[i] = cols[name]
	}
	return export.WriteCSV(os.Stdout, header, columns)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	cols, err := st.LoadBins(args[0])
	if err != nil {
		return err
	}

	res := &forecast.Result{
		Survey:  meta.Survey,
		Options: meta.Options,
		K:       spectrum.Grid(cols["k"]),
		PBase:   cols["p_base"],
		PMod:    cols["p_mod"],
		SigmaP:  cols["sigma_p"],
		DPdA:    cols["dp_da"],
		SigmaA:  meta.SigmaA,
		SNR:     meta.SNR,
	}
	return store.ExportJSONStdout(res, nil)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.RunExplorer(newForecaster(cfg), cfg.Survey, cfg.Forecast)
}
