package pipeline

import (
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type gridPointParquetRow struct {
	Speed      float64 `parquet:"name=speed, type=DOUBLE"`
	Torque     float64 `parquet:"name=torque, type=DOUBLE"`
	EffMCU     float64 `parquet:"name=eff_mcu, type=DOUBLE"`
	EffMotor   float64 `parquet:"name=eff_motor, type=DOUBLE"`
	EffSYS     float64 `parquet:"name=eff_sys, type=DOUBLE"`
	PowerKW    float64 `parquet:"name=power_kw, type=DOUBLE"`
	InEnvelope bool    `parquet:"name=in_envelope, type=BOOLEAN"`
}

func writeGridPointsParquet(path string, points []GridPoint) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(gridPointParquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, p := range points {
		row := gridPointParquetRow{
			Speed:      p.Speed,
			Torque:     p.Torque,
			EffMCU:     p.EffMCU,
			EffMotor:   p.EffMotor,
			EffSYS:     p.EffSYS,
			PowerKW:    p.PowerKW,
			InEnvelope: p.InEnvelope,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}
