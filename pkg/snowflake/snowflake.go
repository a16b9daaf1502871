package snowflake

import (
	"strconv"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

func GenID() int64 {
	return node.Generate().Int64()
}

// GenOrderSn 生成带业务前缀的订单号，如 RC1790000000000000000
func GenOrderSn(prefix string) string {
	return prefix + strconv.FormatInt(GenID(), 10)
}
