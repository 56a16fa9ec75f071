package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/StoyanTc/half-space-trees/hst"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	hst.HandleError(err)
	defer func() { hst.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	hst.HandleError(decoder.Decode(out))
}

type FitConfig struct {
	FileNameStream string      `json:"filename_stream"`
	FileNameModel  string      `json:"filename_model"`
	Bounds         []hst.Bound `json:"bounds"`
	NumTrees       int         `json:"num_trees"`
	MaxDepth       int         `json:"max_depth"`
	Seed           int64       `json:"seed"`
	DecayAlpha     float64     `json:"decay_alpha"`
	DecayEvery     int         `json:"decay_every"`
}

func fit(srcConfig string) {
	var fitConfig FitConfig
	decodeConfig(srcConfig, &fitConfig)

	log.Println("load stream")
	stream, err := hst.ReadStreamMatrix(fitConfig.FileNameStream)
	hst.HandleError(err)

	bounds := hst.Bounds(fitConfig.Bounds)
	if len(bounds) == 0 {
		bounds, err = hst.BoundsFromMatrix(stream.Features)
		hst.HandleError(err)
		log.Println("bounds taken from the stream itself")
	}

	forest, err := hst.NewHalfSpaceForest(hst.ForestParams{
		NumTrees: fitConfig.NumTrees,
		MaxDepth: fitConfig.MaxDepth,
		Bounds:   bounds,
		Rand:     rand.New(rand.NewSource(fitConfig.Seed)),
	})
	hst.HandleError(err)

	inserted, err := stream.Replay(forest, fitConfig.DecayAlpha, fitConfig.DecayEvery)
	hst.HandleError(err)
	log.Printf("fed %d observations into %d trees\n", inserted, fitConfig.NumTrees)

	hst.HandleError(forest.Save(fitConfig.FileNameModel))
}

type ScoreConfig struct {
	FileNameStream string `json:"filename_stream"`
	FileNameModel  string `json:"filename_model"`
	FileNameScores string `json:"filename_scores"`
	ThreadsNum     int    `json:"threads_num"`
}

func score(srcConfig string) {
	var scoreConfig ScoreConfig
	decodeConfig(srcConfig, &scoreConfig)

	stream, err := hst.ReadStreamMatrix(scoreConfig.FileNameStream)
	hst.HandleError(err)

	forest, err := hst.LoadForest(scoreConfig.FileNameModel)
	hst.HandleError(err)

	scores, err := forest.ScoreBatch(stream.Features, scoreConfig.ThreadsNum)
	hst.HandleError(err)

	hst.HandleError(hst.WriteNpy(scoreConfig.FileNameScores, scores))
}

type ProfileConfig struct {
	FileNameStream  string `json:"filename_stream"`
	FileNameModel   string `json:"filename_model"`
	FileNameProfile string `json:"filename_profile"`
}

func profile(srcConfig string) {
	var profileConfig ProfileConfig
	decodeConfig(srcConfig, &profileConfig)

	stream, err := hst.ReadStreamMatrix(profileConfig.FileNameStream)
	hst.HandleError(err)

	forest, err := hst.LoadForest(profileConfig.FileNameModel)
	hst.HandleError(err)

	pathProfile, err := forest.PathProfile(stream.Features)
	hst.HandleError(err)

	flat, err := hst.FlattenProfile(pathProfile)
	hst.HandleError(err)

	hst.HandleError(hst.WriteNpy(profileConfig.FileNameProfile, flat))
}

type GraphConfig struct {
	ModelFileName     string `json:"filename_model"`
	FigureType        string `json:"figure_type"`
	PicturesDirectory string `json:"pictures_directory"`
	DumpPrefix        string `json:"dump_prefix"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	forest, err := hst.LoadForest(graphConfig.ModelFileName)
	hst.HandleError(err)
	forest.RenderTrees(graphConfig.DumpPrefix, graphConfig.FigureType, graphConfig.PicturesDirectory)
}

func main() {
	runMode := flag.String("mode", "fit", "you can select either 'fit', 'score', 'profile' or 'graph' modes")
	config := flag.String("config", "hst_config.json", "a config file for the run of the program")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	map[string]func(string){
		"fit":     fit,
		"score":   score,
		"profile": profile,
		"graph":   graph,
	}[*runMode](*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		hst.HandleError(err)
		defer func() { hst.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
