package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

// 10.0.4.10:8436 124.220.233.230:8436
var MainRouter string
var Dbname string
var Download string
var DefaultPower float64
var DefaultNeighbors int
var MainConfig Config

type Config struct {
	XMLName          xml.Name `xml:"config"`
	MainRouter       string   `xml:"MainRouter"`
	Dbname           string   `xml:"dbname"`
	Download         string   `xml:"download"`
	DefaultPower     float64  `xml:"power"`
	DefaultNeighbors int      `xml:"neighbors"`
}

func init() {

	DefaultPower = 2
	DefaultNeighbors = 12

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		MainRouter = "0.0.0.0:8436"
		Dbname = "surface.db"
		Download = "./OutFile"
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
		return
	}
	MainRouter = MainConfig.MainRouter
	Dbname = MainConfig.Dbname
	Download = MainConfig.Download
	if MainConfig.DefaultPower > 0 {
		DefaultPower = MainConfig.DefaultPower
	}
	if MainConfig.DefaultNeighbors > 0 {
		DefaultNeighbors = MainConfig.DefaultNeighbors
	}
	if MainRouter == "" {
		MainRouter = "0.0.0.0:8436"
	}
	if Dbname == "" {
		Dbname = "surface.db"
	}
	if Download == "" {
		Download = "./OutFile"
	}
}
